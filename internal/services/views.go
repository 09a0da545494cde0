package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type AuditView struct {
	CreatedBy     uuid.UUID `json:"createdBy"`
	CreatedByName string    `json:"createdByName"`
	CreatedOn     time.Time `json:"createdOn"`
	UpdatedBy     uuid.UUID `json:"updatedBy"`
	UpdatedByName string    `json:"updatedByName"`
	UpdatedOn     time.Time `json:"updatedOn"`
}

type RefView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AuthorView struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}

type ResourceView struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	ImageURL      string             `json:"imageUrl"`
	LinkURL       *string            `json:"linkUrl,omitempty"`
	AttachmentURL *string            `json:"attachmentUrl,omitempty"`
	ResourceType  types.ResourceType `json:"resourceType"`
	Grade         RefView            `json:"grade"`
	Subject       RefView            `json:"subject"`
	Tags          []RefView          `json:"tags"`
	VoteCount     int                `json:"voteCount"`
	IsVotedByUser bool               `json:"isVotedByUser"`
	AuditView
}

type LearningModuleView struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"imageUrl"`
	Grade         RefView   `json:"grade"`
	Subject       RefView   `json:"subject"`
	Tags          []RefView `json:"tags"`
	VoteCount     int       `json:"voteCount"`
	IsVotedByUser bool      `json:"isVotedByUser"`
	ResourceCount int       `json:"resourceCount"`
	AuditView
}

// viewBuilder turns entities into view models, resolving display names and
// vote aggregates in batches.
type viewBuilder struct {
	log *logger.Logger
	dir Directory
}

// names resolves display names. Directory failures degrade to empty names.
func (b viewBuilder) names(ctx context.Context, caller Caller, ids []uuid.UUID) map[uuid.UUID]string {
	if b.dir == nil || len(ids) == 0 {
		return map[uuid.UUID]string{}
	}
	names, err := b.dir.DisplayNames(ctx, caller.Token, ids)
	if err != nil {
		b.log.Warn("Display name lookup failed", "error", err, "ids", len(ids))
		return map[uuid.UUID]string{}
	}
	return names
}

func auditIDs(audits ...types.Audit) []uuid.UUID {
	out := make([]uuid.UUID, 0, 2*len(audits))
	for _, a := range audits {
		out = append(out, a.CreatedBy, a.UpdatedBy)
	}
	return out
}

func auditView(a types.Audit, names map[uuid.UUID]string) AuditView {
	return AuditView{
		CreatedBy:     a.CreatedBy,
		CreatedByName: names[a.CreatedBy],
		CreatedOn:     a.CreatedAt,
		UpdatedBy:     a.UpdatedBy,
		UpdatedByName: names[a.UpdatedBy],
		UpdatedOn:     a.UpdatedAt,
	}
}

func gradeRef(g *types.Grade, id uuid.UUID) RefView {
	if g == nil {
		return RefView{ID: id}
	}
	return RefView{ID: g.ID, Name: g.Name}
}

func subjectRef(s *types.Subject, id uuid.UUID) RefView {
	if s == nil {
		return RefView{ID: id}
	}
	return RefView{ID: s.ID, Name: s.Name}
}

func tagRef(t *types.Tag, id uuid.UUID) RefView {
	if t == nil {
		return RefView{ID: id}
	}
	return RefView{ID: t.ID, Name: t.Name}
}

func (b viewBuilder) resources(ctx context.Context, uow *repos.UnitOfWork, caller Caller, rows []*types.Resource) ([]ResourceView, error) {
	out := make([]ResourceView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	audits := make([]types.Audit, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
		audits = append(audits, r.Audit)
	}
	votes, err := uow.Resources.GetWithVotes(ctx, ids)
	if err != nil {
		return nil, err
	}
	tagRows, err := uow.ResourceTags.GetByResourceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	tags := map[uuid.UUID][]RefView{}
	for _, rt := range tagRows {
		tags[rt.ResourceID] = append(tags[rt.ResourceID], tagRef(rt.Tag, rt.TagID))
	}
	names := b.names(ctx, caller, auditIDs(audits...))

	for _, r := range rows {
		sum := repos.SummarizeResourceVotes(votes[r.ID], caller.UserID)
		v := ResourceView{
			ID:            r.ID,
			Title:         r.Title,
			Description:   r.Description,
			ImageURL:      r.ImageURL,
			LinkURL:       r.LinkURL,
			AttachmentURL: r.AttachmentURL,
			ResourceType:  r.ResourceType,
			Grade:         gradeRef(r.Grade, r.GradeID),
			Subject:       subjectRef(r.Subject, r.SubjectID),
			Tags:          tags[r.ID],
			VoteCount:     sum.Count,
			IsVotedByUser: sum.VotedByUser,
			AuditView:     auditView(r.Audit, names),
		}
		if v.Tags == nil {
			v.Tags = []RefView{}
		}
		out = append(out, v)
	}
	return out, nil
}

func (b viewBuilder) modules(ctx context.Context, uow *repos.UnitOfWork, caller Caller, rows []*types.LearningModule) ([]LearningModuleView, error) {
	out := make([]LearningModuleView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	audits := make([]types.Audit, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
		audits = append(audits, m.Audit)
	}
	details, err := uow.LearningModules.GetWithVotesAndResources(ctx, ids)
	if err != nil {
		return nil, err
	}
	tagRows, err := uow.LearningModuleTags.GetByModuleIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	tags := map[uuid.UUID][]RefView{}
	for _, mt := range tagRows {
		tags[mt.LearningModuleID] = append(tags[mt.LearningModuleID], tagRef(mt.Tag, mt.TagID))
	}
	names := b.names(ctx, caller, auditIDs(audits...))

	for _, m := range rows {
		sum := repos.SummarizeLearningModule(details[m.ID], caller.UserID)
		v := LearningModuleView{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			ImageURL:      m.ImageURL,
			Grade:         gradeRef(m.Grade, m.GradeID),
			Subject:       subjectRef(m.Subject, m.SubjectID),
			Tags:          tags[m.ID],
			VoteCount:     sum.Count,
			IsVotedByUser: sum.VotedByUser,
			ResourceCount: sum.ResourceCount,
			AuditView:     auditView(m.Audit, names),
		}
		if v.Tags == nil {
			v.Tags = []RefView{}
		}
		out = append(out, v)
	}
	return out, nil
}

func (b viewBuilder) authors(ctx context.Context, caller Caller, ids []uuid.UUID) []AuthorView {
	names := b.names(ctx, caller, ids)
	out := make([]AuthorView, 0, len(ids))
	for _, id := range ids {
		out = append(out, AuthorView{ID: id, DisplayName: names[id]})
	}
	return out
}
