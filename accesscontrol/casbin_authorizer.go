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

package accesscontrol

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/shared"
	"gorm.io/gorm"
)

//go:embed rbac_model.conf
var defaultRBACModel string

const (
	subjectAnyUser     = "global::user"
	subjectGlobalAdmin = "global::admin"
)

func membershipSubject(role models.MembershipRole) string {
	return "role::" + string(role)
}

// role inheritance, the first role gets every permission of the second
var defaultGroupingPolicies = [][]string{
	{membershipSubject(models.MembershipRoleAdmin), membershipSubject(models.MembershipRoleEditor)},
	{membershipSubject(models.MembershipRoleEditor), membershipSubject(models.MembershipRoleViewer)},
}

var defaultPolicies = [][]string{
	{membershipSubject(models.MembershipRoleViewer), string(shared.ObjectProject), string(shared.ActionRead)},
	{membershipSubject(models.MembershipRoleViewer), string(shared.ObjectGraph), string(shared.ActionRead)},
	{membershipSubject(models.MembershipRoleViewer), string(shared.ObjectSnapshot), string(shared.ActionRead)},

	{membershipSubject(models.MembershipRoleEditor), string(shared.ObjectGraph), string(shared.ActionUpdate)},
	{membershipSubject(models.MembershipRoleEditor), string(shared.ObjectSnapshot), string(shared.ActionCreate)},
	{membershipSubject(models.MembershipRoleEditor), string(shared.ObjectSnapshot), string(shared.ActionRestore)},
	{membershipSubject(models.MembershipRoleEditor), string(shared.ObjectInterchange), string(shared.ActionExport)},

	{membershipSubject(models.MembershipRoleAdmin), string(shared.ObjectProject), string(shared.ActionUpdate)},
	{membershipSubject(models.MembershipRoleAdmin), string(shared.ObjectProject), string(shared.ActionDelete)},

	{subjectAnyUser, string(shared.ObjectProject), string(shared.ActionCreate)},
	{subjectAnyUser, string(shared.ObjectInterchange), string(shared.ActionImport)},
}

var _ shared.Authorizer = &casbinAuthorizer{}

// casbinAuthorizer maps membership roles to permissions. Who holds which role lives in the
// memberships table, casbin only knows what a role may do.
type casbinAuthorizer struct {
	enforcer *casbin.SyncedEnforcer
}

func loadModel() (model.Model, error) {
	if path := os.Getenv("RBAC_CONFIG_PATH"); path != "" {
		return model.NewModelFromFile(path)
	}
	return model.NewModelFromString(defaultRBACModel)
}

// NewCasbinAuthorizer persists the policies through the gorm adapter and keeps every instance
// in sync through the policy change channel of the broker.
func NewCasbinAuthorizer(db *gorm.DB, broker shared.PubSubBroker) (*casbinAuthorizer, error) {
	m, err := loadModel()
	if err != nil {
		return nil, fmt.Errorf("could not load rbac model: %w", err)
	}

	a, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewSyncedEnforcer(m, a)
	if err != nil {
		return nil, err
	}
	e.EnableLog(false)

	if err := seedPolicies(e); err != nil {
		return nil, err
	}

	watcher, err := newCasbinPubSubWatcher(broker)
	if err != nil {
		return nil, err
	}
	if err := e.SetWatcher(watcher); err != nil {
		return nil, fmt.Errorf("could not set watcher: %w", err)
	}
	err = watcher.SetUpdateCallback(func(string) {
		if err := e.LoadPolicy(); err != nil {
			slog.Error("error while loading policy after update", "err", err)
		} else {
			slog.Debug("policy successfully reloaded after update")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not set update callback: %w", err)
	}

	return &casbinAuthorizer{enforcer: e}, nil
}

// NewInMemoryAuthorizer holds the default policies without persistence.
func NewInMemoryAuthorizer() (*casbinAuthorizer, error) {
	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	e.EnableLog(false)
	if err := seedPolicies(e); err != nil {
		return nil, err
	}
	return &casbinAuthorizer{enforcer: e}, nil
}

// seedPolicies adds missing default rules, existing rules are left untouched.
func seedPolicies(e *casbin.SyncedEnforcer) error {
	for _, p := range defaultGroupingPolicies {
		if _, err := e.AddGroupingPolicy(p); err != nil {
			return fmt.Errorf("could not add grouping policy %v: %w", p, err)
		}
	}
	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p); err != nil {
			return fmt.Errorf("could not add policy %v: %w", p, err)
		}
	}
	return nil
}

func (c *casbinAuthorizer) enforce(subject string, object shared.Object, action shared.Action) bool {
	ok, err := c.enforcer.Enforce(subject, string(object), string(action))
	if err != nil {
		slog.Error("could not enforce policy", "subject", subject, "object", object, "action", action, "err", err)
		return false
	}
	return ok
}

func (c *casbinAuthorizer) IsAllowed(caller shared.Caller, membershipRole *models.MembershipRole, object shared.Object, action shared.Action) bool {
	if caller.IsGlobalAdmin() {
		return true
	}
	if membershipRole != nil && c.enforce(membershipSubject(*membershipRole), object, action) {
		return true
	}
	return c.enforce(subjectAnyUser, object, action)
}

// CanExport requires editor or above.
func (c *casbinAuthorizer) CanExport(caller shared.Caller, membershipRole *models.MembershipRole) bool {
	return c.IsAllowed(caller, membershipRole, shared.ObjectInterchange, shared.ActionExport)
}

func (c *casbinAuthorizer) CanImport(caller shared.Caller) bool {
	return c.IsAllowed(caller, nil, shared.ObjectInterchange, shared.ActionImport)
}

// CanRestore requires editor or above.
func (c *casbinAuthorizer) CanRestore(caller shared.Caller, membershipRole *models.MembershipRole) bool {
	return c.IsAllowed(caller, membershipRole, shared.ObjectSnapshot, shared.ActionRestore)
}
