// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shared

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/labstack/echo/v4"
	"github.com/ory/client-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Caller is the already authenticated identity invoking an operation.
type Caller struct {
	UserID     uuid.UUID
	Email      string
	Name       string
	GlobalRole models.UserRole
}

func NewCaller(user models.User) Caller {
	return Caller{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		GlobalRole: user.Role,
	}
}

func (c Caller) IsGlobalAdmin() bool {
	return c.GlobalRole == models.UserRoleAdmin
}

func (c Caller) UserIDPtr() *uuid.UUID {
	id := c.UserID
	return &id
}

type AdminClient interface {
	GetIdentityFromCookie(ctx context.Context, cookie string) (client.Identity, error)
}

type adminClientImplementation struct {
	apiClient *client.APIClient
}

// GetOryAPIClient builds a kratos client whose requests are traced.
func GetOryAPIClient(url string) *client.APIClient {
	cfg := client.NewConfiguration()
	cfg.Servers = client.ServerConfigurations{
		{URL: url},
	}
	cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return client.NewAPIClient(cfg)
}

func NewAdminClient(client *client.APIClient) adminClientImplementation {
	return adminClientImplementation{
		apiClient: client,
	}
}

func (a adminClientImplementation) GetIdentityFromCookie(ctx context.Context, cookie string) (client.Identity, error) {
	session, _, err := a.apiClient.FrontendAPI.ToSession(ctx).Cookie(cookie).Execute()
	if err != nil {
		return client.Identity{}, fmt.Errorf("could not get identity from cookie: %w", err)
	}
	if session.Identity == nil {
		return client.Identity{}, fmt.Errorf("identity not found in session")
	}
	return *session.Identity, nil
}

// IdentityTraits extracts email and display name from kratos identity traits.
func IdentityTraits(identity client.Identity) (string, string) {
	traits, ok := identity.Traits.(map[string]any)
	if !ok {
		return "", ""
	}
	email, _ := traits["email"].(string)

	name := ""
	switch n := traits["name"].(type) {
	case string:
		name = n
	case map[string]any:
		first, _ := n["first"].(string)
		last, _ := n["last"].(string)
		name = strings.TrimSpace(first + " " + last)
	}
	return email, name
}

func GetSession(ctx Context) Caller {
	return ctx.Get("session").(Caller)
}

func SetSession(ctx Context, caller Caller) {
	ctx.Set("session", caller)
}

func GetProject(ctx Context) models.Project {
	return ctx.Get("project").(models.Project)
}

func SetProject(ctx Context, project models.Project) {
	ctx.Set("project", project)
}

// GetMembershipRole returns nil if the caller is not a member of the current project.
func GetMembershipRole(ctx Context) *models.MembershipRole {
	role, ok := ctx.Get("membershipRole").(models.MembershipRole)
	if !ok {
		return nil
	}
	return &role
}

func SetMembershipRole(ctx Context, role models.MembershipRole) {
	ctx.Set("membershipRole", role)
}

func GetParam(ctx Context, param string) string {
	return SanitizeParam(ctx.Param(param))
}

func GetUUIDParam(ctx Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(GetParam(ctx, param))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(400, fmt.Sprintf("invalid %s", param)).WithInternal(err)
	}
	return id, nil
}
