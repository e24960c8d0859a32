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

package interchange

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
	"github.com/l3montree-dev/modelguard/database/models"
	"github.com/l3montree-dev/modelguard/dtos"
	"github.com/l3montree-dev/modelguard/utils"
)

// ProjectData is the full data closure of one project as read from storage.
type ProjectData struct {
	Project       models.Project
	Members       []models.Membership
	Users         []models.User
	Nodes         []models.ModelNode
	Edges         []models.ModelEdge
	DataObjects   []models.DataObject
	ComponentData []models.ComponentDataLink
	EdgeDataFlows []models.EdgeDataFlowLink
	AssetValues   []models.AssetValue
	Questions     []models.Question
	Answers       []models.Answer
	FinalAnswers  []models.FinalAnswer
	Findings      []models.Finding
	Measures      []models.Measure
	Reports       []models.Report
	Snapshots     []models.Snapshot
}

// ReferencedUserIDs collects every distinct user referenced by membership, audit fields or answer authorship.
func (d ProjectData) ReferencedUserIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	res := make([]uuid.UUID, 0)
	add := func(ids ...*uuid.UUID) {
		for _, id := range ids {
			if id == nil || *id == uuid.Nil {
				continue
			}
			if _, ok := seen[*id]; ok {
				continue
			}
			seen[*id] = struct{}{}
			res = append(res, *id)
		}
	}

	add(d.Project.CreatedByID, d.Project.UpdatedByID)
	for _, m := range d.Members {
		add(&m.UserID)
	}
	for _, n := range d.Nodes {
		add(n.CreatedByID, n.UpdatedByID)
	}
	for _, e := range d.Edges {
		add(e.CreatedByID, e.UpdatedByID)
	}
	for _, o := range d.DataObjects {
		add(o.CreatedByID, o.UpdatedByID)
	}
	for _, a := range d.AssetValues {
		add(a.CreatedByID, a.UpdatedByID)
	}
	for _, a := range d.Answers {
		add(a.AuthorID)
	}
	for _, f := range d.FinalAnswers {
		add(f.CreatedByID, f.UpdatedByID)
	}
	for _, f := range d.Findings {
		add(f.CreatedByID, f.UpdatedByID)
	}
	for _, m := range d.Measures {
		add(m.CreatedByID, m.UpdatedByID)
	}
	for _, r := range d.Reports {
		add(r.CreatedByID, r.UpdatedByID)
	}
	for _, s := range d.Snapshots {
		add(s.CreatedByID)
	}
	return res
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	return utils.Ptr(id.String())
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}

func NodeToDTO(n models.ModelNode) dtos.NodeDTO {
	return dtos.NodeDTO{
		ID:           n.ID.String(),
		StableID:     n.StableID,
		Name:         n.Name,
		Description:  n.Description,
		Category:     string(n.Category),
		ParentNodeID: idString(n.ParentNodeID),
		OriginID:     n.OriginID,
		CreatedBy:    idString(n.CreatedByID),
		UpdatedBy:    idString(n.UpdatedByID),
	}
}

func EdgeToDTO(e models.ModelEdge) dtos.EdgeDTO {
	return dtos.EdgeDTO{
		ID:           e.ID.String(),
		SourceNodeID: e.SourceNodeID.String(),
		TargetNodeID: e.TargetNodeID.String(),
		Direction:    string(e.Direction),
		Protocol:     e.Protocol,
		Name:         e.Name,
		OriginID:     e.OriginID,
		CreatedBy:    idString(e.CreatedByID),
		UpdatedBy:    idString(e.UpdatedByID),
	}
}

func DataObjectToDTO(o models.DataObject) dtos.DataObjectDTO {
	return dtos.DataObjectDTO{
		ID:              o.ID.String(),
		Name:            o.Name,
		Description:     o.Description,
		Classification:  string(o.Classification),
		Confidentiality: utils.Ptr(o.Confidentiality),
		Integrity:       utils.Ptr(o.Integrity),
		Availability:    utils.Ptr(o.Availability),
		OriginID:        o.OriginID,
		CreatedBy:       idString(o.CreatedByID),
		UpdatedBy:       idString(o.UpdatedByID),
	}
}

func ComponentDataToDTO(l models.ComponentDataLink) dtos.ComponentDataDTO {
	return dtos.ComponentDataDTO{
		ID:           l.ID.String(),
		NodeID:       l.NodeID.String(),
		DataObjectID: l.DataObjectID.String(),
		Role:         string(l.Role),
	}
}

func EdgeDataFlowToDTO(l models.EdgeDataFlowLink) dtos.EdgeDataFlowDTO {
	return dtos.EdgeDataFlowDTO{
		ID:           l.ID.String(),
		EdgeID:       l.EdgeID.String(),
		DataObjectID: l.DataObjectID.String(),
		Direction:    string(l.Direction),
	}
}

// BuildBundle renders the data closure verbatim, no identifier is changed.
func BuildBundle(d ProjectData) dtos.ProjectBundle {
	return dtos.ProjectBundle{
		Format:  dtos.BundleFormat,
		Version: dtos.BundleVersion,
		Project: dtos.ProjectMetaDTO{
			ID:          d.Project.ID.String(),
			Name:        d.Project.Name,
			Description: d.Project.Description,
			Norms:       slices.Clone([]string(d.Project.Norms)),
			Visibility:  string(d.Project.Visibility),
			CreatedBy:   idString(d.Project.CreatedByID),
			UpdatedBy:   idString(d.Project.UpdatedByID),
			CreatedAt:   d.Project.CreatedAt,
		},
		Members: utils.Map(d.Members, func(m models.Membership) dtos.MemberDTO {
			return dtos.MemberDTO{UserID: m.UserID.String(), Role: string(m.Role), CreatedAt: m.CreatedAt}
		}),
		Users: utils.Map(d.Users, func(u models.User) dtos.UserDTO {
			return dtos.UserDTO{ID: u.ID.String(), Email: u.Email, Name: u.Name, Role: string(u.Role)}
		}),
		Nodes:         utils.Map(d.Nodes, NodeToDTO),
		Edges:         utils.Map(d.Edges, EdgeToDTO),
		DataObjects:   utils.Map(d.DataObjects, DataObjectToDTO),
		ComponentData: utils.Map(d.ComponentData, ComponentDataToDTO),
		EdgeDataFlows: utils.Map(d.EdgeDataFlows, EdgeDataFlowToDTO),
		AssetValues: utils.Map(d.AssetValues, func(a models.AssetValue) dtos.AssetValueDTO {
			return dtos.AssetValueDTO{
				ID:            a.ID.String(),
				AssetType:     string(a.AssetType),
				AssetID:       a.AssetID.String(),
				Value:         utils.Ptr(a.Value),
				Justification: a.Justification,
				CreatedBy:     idString(a.CreatedByID),
				UpdatedBy:     idString(a.UpdatedByID),
			}
		}),
		Questions: utils.Map(d.Questions, func(q models.Question) dtos.QuestionDTO {
			return dtos.QuestionDTO{
				ID:        q.ID.String(),
				AssetType: string(q.AssetType),
				AssetID:   q.AssetID.String(),
				Norm:      q.Norm,
				Text:      q.Text,
			}
		}),
		Answers: utils.Map(d.Answers, func(a models.Answer) dtos.AnswerDTO {
			return dtos.AnswerDTO{
				ID:         a.ID.String(),
				QuestionID: a.QuestionID.String(),
				AuthorID:   idString(a.AuthorID),
				Value:      a.Value,
			}
		}),
		FinalAnswers: utils.Map(d.FinalAnswers, func(f models.FinalAnswer) dtos.FinalAnswerDTO {
			return dtos.FinalAnswerDTO{
				ID:         f.ID.String(),
				QuestionID: f.QuestionID.String(),
				AssetType:  string(f.AssetType),
				AssetID:    f.AssetID.String(),
				Value:      f.Value,
				CreatedBy:  idString(f.CreatedByID),
				UpdatedBy:  idString(f.UpdatedByID),
			}
		}),
		Findings: utils.Map(d.Findings, func(f models.Finding) dtos.FindingDTO {
			return dtos.FindingDTO{
				ID:          f.ID.String(),
				AssetType:   string(f.AssetType),
				AssetID:     f.AssetID.String(),
				Title:       f.Title,
				Description: f.Description,
				Severity:    f.Severity,
				CreatedBy:   idString(f.CreatedByID),
				UpdatedBy:   idString(f.UpdatedByID),
			}
		}),
		Measures: utils.Map(d.Measures, func(m models.Measure) dtos.MeasureDTO {
			return dtos.MeasureDTO{
				ID:          m.ID.String(),
				FindingID:   m.FindingID.String(),
				Title:       m.Title,
				Description: m.Description,
				Status:      m.Status,
				CreatedBy:   idString(m.CreatedByID),
				UpdatedBy:   idString(m.UpdatedByID),
			}
		}),
		Reports: utils.Map(d.Reports, func(r models.Report) dtos.ReportDTO {
			return dtos.ReportDTO{
				ID:        r.ID.String(),
				Name:      r.Name,
				Content:   rawJSON(r.Content),
				CreatedBy: idString(r.CreatedByID),
				UpdatedBy: idString(r.UpdatedByID),
			}
		}),
		Savepoints: utils.Map(d.Snapshots, func(s models.Snapshot) dtos.SavepointDTO {
			return dtos.SavepointDTO{
				ID:        s.ID.String(),
				Name:      s.Name,
				Document:  rawJSON(s.Document),
				CreatedBy: idString(s.CreatedByID),
				CreatedAt: s.CreatedAt,
			}
		}),
	}
}

// BuildSnapshotDocument captures the canonical graph of d together with the given view state.
func BuildSnapshotDocument(d ProjectData, state dtos.ViewState) dtos.SnapshotDocument {
	if state.NodePositions == nil {
		state.NodePositions = map[string]json.RawMessage{}
	}
	if state.ContainerSizes == nil {
		state.ContainerSizes = map[string]json.RawMessage{}
	}
	return dtos.SnapshotDocument{
		Version:       dtos.SnapshotVersion,
		Nodes:         utils.Map(d.Nodes, NodeToDTO),
		Edges:         utils.Map(d.Edges, EdgeToDTO),
		DataObjects:   utils.Map(d.DataObjects, DataObjectToDTO),
		ComponentData: utils.Map(d.ComponentData, ComponentDataToDTO),
		EdgeDataFlows: utils.Map(d.EdgeDataFlows, EdgeDataFlowToDTO),
		State:         state,
	}
}
