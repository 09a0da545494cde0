package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

const maxCatalogNameLen = 200

// CatalogView renders a grade, subject or tag. The name is keyed by kind
// (gradeName, subjectName, tagName).
type CatalogView struct {
	Kind string
	ID   uuid.UUID
	Name string
	AuditView
}

func (v CatalogView) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"id":            v.ID,
		v.Kind + "Name": v.Name,
		"createdBy":     v.CreatedBy,
		"createdByName": v.CreatedByName,
		"createdOn":     v.CreatedOn,
		"updatedBy":     v.UpdatedBy,
		"updatedByName": v.UpdatedByName,
		"updatedOn":     v.UpdatedOn,
	})
}

type CatalogInput struct {
	ID   *uuid.UUID
	Name string
}

// CatalogService manages one kind of named reference entity.
type CatalogService interface {
	List(ctx context.Context, caller Caller) ([]CatalogView, error)
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*CatalogView, error)
	Create(ctx context.Context, caller Caller, in *CatalogInput) (*CatalogView, error)
	Update(ctx context.Context, caller Caller, id uuid.UUID, in *CatalogInput) (*CatalogView, error)
	Delete(ctx context.Context, caller Caller, id uuid.UUID) (*CatalogView, error)
}

type catalogRepo[T any] interface {
	repos.Store[T]
	List(ctx context.Context) ([]*T, error)
	GetByName(ctx context.Context, name string) ([]*T, error)
}

type catalogEntry[T any] interface {
	*T
	EnsureID()
	GetID() uuid.UUID
	GetName() string
	SetName(name string)
	GetAudit() *types.Audit
}

type catalogService[T any, P catalogEntry[T]] struct {
	log   *logger.Logger
	uows  repos.UnitOfWorkFactory
	views viewBuilder
	kind  string
	repo  func(*repos.UnitOfWork) catalogRepo[T]
}

func NewGradeService(uows repos.UnitOfWorkFactory, dir Directory, baseLog *logger.Logger) CatalogService {
	return newCatalogService[types.Grade]("grade", "GradeService", uows, dir, baseLog,
		func(u *repos.UnitOfWork) catalogRepo[types.Grade] { return u.Grades })
}

func NewSubjectService(uows repos.UnitOfWorkFactory, dir Directory, baseLog *logger.Logger) CatalogService {
	return newCatalogService[types.Subject]("subject", "SubjectService", uows, dir, baseLog,
		func(u *repos.UnitOfWork) catalogRepo[types.Subject] { return u.Subjects })
}

func NewTagService(uows repos.UnitOfWorkFactory, dir Directory, baseLog *logger.Logger) CatalogService {
	return newCatalogService[types.Tag]("tag", "TagService", uows, dir, baseLog,
		func(u *repos.UnitOfWork) catalogRepo[types.Tag] { return u.Tags })
}

func newCatalogService[T any, P catalogEntry[T]](
	kind, name string,
	uows repos.UnitOfWorkFactory,
	dir Directory,
	baseLog *logger.Logger,
	repo func(*repos.UnitOfWork) catalogRepo[T],
) CatalogService {
	serviceLog := baseLog.With("service", name)
	return &catalogService[T, P]{
		log:   serviceLog,
		uows:  uows,
		views: viewBuilder{log: serviceLog, dir: dir},
		kind:  kind,
		repo:  repo,
	}
}

func (s *catalogService[T, P]) List(ctx context.Context, caller Caller) ([]CatalogView, error) {
	rows, err := s.repo(s.uows.New()).List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, caller, rows), nil
}

func (s *catalogService[T, P]) Get(ctx context.Context, caller Caller, id uuid.UUID) (*CatalogView, error) {
	row, err := s.load(ctx, s.repo(s.uows.New()), id)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, caller, row), nil
}

func (s *catalogService[T, P]) Create(ctx context.Context, caller Caller, in *CatalogInput) (*CatalogView, error) {
	name, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	uow := s.uows.New()
	repo := s.repo(uow)
	if err := s.ensureNameFree(ctx, repo, name, uuid.Nil); err != nil {
		return nil, err
	}

	row := P(new(T))
	row.SetName(name)
	*row.GetAudit() = types.NewAudit(caller.UserID)
	repo.Add((*T)(row))
	if err := commit(ctx, s.log, uow, "create "+s.kind, nil); err != nil {
		return nil, err
	}
	s.log.Info("Catalog entry created", "kind", s.kind, "id", row.GetID(), "created_by", caller.UserID)
	return s.toView(ctx, caller, (*T)(row)), nil
}

func (s *catalogService[T, P]) Update(ctx context.Context, caller Caller, id uuid.UUID, in *CatalogInput) (*CatalogView, error) {
	if err := requireID(id, s.kind); err != nil {
		return nil, err
	}
	name, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	if err := requireSameID(id, in.ID); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	repo := s.repo(uow)
	existing, err := s.load(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	row := P(existing)
	if !strings.EqualFold(row.GetName(), name) {
		if err := s.ensureNameFree(ctx, repo, name, id); err != nil {
			return nil, err
		}
	}
	row.SetName(name)
	row.GetAudit().Touch(caller.UserID)
	repo.Update(existing)
	if err := commit(ctx, s.log, uow, "update "+s.kind, nil); err != nil {
		return nil, err
	}
	return s.toView(ctx, caller, existing), nil
}

func (s *catalogService[T, P]) Delete(ctx context.Context, caller Caller, id uuid.UUID) (*CatalogView, error) {
	if err := requireID(id, s.kind); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	repo := s.repo(uow)
	existing, err := s.load(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	repo.Delete(existing)
	if err := commit(ctx, s.log, uow, "delete "+s.kind, nil); err != nil {
		return nil, err
	}
	s.log.Info("Catalog entry deleted", "kind", s.kind, "id", id, "caller_id", caller.UserID)
	return s.toView(ctx, caller, existing), nil
}

func (s *catalogService[T, P]) validate(in *CatalogInput) (string, error) {
	if in == nil {
		return "", apierr.BadRequest("invalid_payload", "%s payload is required", s.kind)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", apierr.BadRequest("invalid_name", "%s name is required", s.kind)
	}
	if len(name) > maxCatalogNameLen {
		return "", apierr.BadRequest("invalid_name", "%s name must be at most %d characters", s.kind, maxCatalogNameLen)
	}
	return name, nil
}

func (s *catalogService[T, P]) load(ctx context.Context, repo catalogRepo[T], id uuid.UUID) (*T, error) {
	row, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound(s.kind+"_not_found", "%s %s not found", s.kind, id)
	}
	return row, nil
}

func (s *catalogService[T, P]) ensureNameFree(ctx context.Context, repo catalogRepo[T], name string, self uuid.UUID) error {
	matches, err := repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if P(m).GetID() != self {
			return apierr.Conflict("already_exists", "%s %q already exists", s.kind, name)
		}
	}
	return nil
}

func (s *catalogService[T, P]) toViews(ctx context.Context, caller Caller, rows []*T) []CatalogView {
	audits := make([]types.Audit, 0, len(rows))
	for _, r := range rows {
		audits = append(audits, *P(r).GetAudit())
	}
	names := s.views.names(ctx, caller, auditIDs(audits...))
	out := make([]CatalogView, 0, len(rows))
	for _, r := range rows {
		p := P(r)
		out = append(out, CatalogView{Kind: s.kind, ID: p.GetID(), Name: p.GetName(), AuditView: auditView(*p.GetAudit(), names)})
	}
	return out
}

func (s *catalogService[T, P]) toView(ctx context.Context, caller Caller, row *T) *CatalogView {
	v := s.toViews(ctx, caller, []*T{row})[0]
	return &v
}
