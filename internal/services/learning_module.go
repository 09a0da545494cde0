package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type LearningModuleInput struct {
	ID          *uuid.UUID
	Title       string
	Description string
	ImageURL    string
	GradeID     uuid.UUID
	SubjectID   uuid.UUID
	TagIDs      []uuid.UUID
}

type LearningModuleService interface {
	List(ctx context.Context, caller Caller, q ListQuery) ([]LearningModuleView, error)
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*LearningModuleView, error)
	Create(ctx context.Context, caller Caller, in *LearningModuleInput) (*LearningModuleView, error)
	Update(ctx context.Context, caller Caller, id uuid.UUID, in *LearningModuleInput) (*LearningModuleView, error)
	Delete(ctx context.Context, caller Caller, id uuid.UUID) (*LearningModuleView, error)
	Upvote(ctx context.Context, caller Caller, id uuid.UUID) error
	Downvote(ctx context.Context, caller Caller, id uuid.UUID) (bool, error)
	Authors(ctx context.Context, caller Caller) ([]AuthorView, error)

	Resources(ctx context.Context, caller Caller, id uuid.UUID) ([]ResourceView, error)
	AddResources(ctx context.Context, caller Caller, id uuid.UUID, resourceIDs []uuid.UUID) ([]ResourceView, error)
	RemoveResource(ctx context.Context, caller Caller, id, resourceID uuid.UUID) error
}

type learningModuleService struct {
	log      *logger.Logger
	uows     repos.UnitOfWorkFactory
	views    viewBuilder
	auth     authorizer
	pageSize int
}

func NewLearningModuleService(
	uows repos.UnitOfWorkFactory,
	dir Directory,
	membership Membership,
	groups Groups,
	pageSize int,
	baseLog *logger.Logger,
) LearningModuleService {
	serviceLog := baseLog.With("service", "LearningModuleService")
	return &learningModuleService{
		log:      serviceLog,
		uows:     uows,
		views:    viewBuilder{log: serviceLog, dir: dir},
		auth:     authorizer{membership: membership, groups: groups},
		pageSize: pageSize,
	}
}

func (s *learningModuleService) List(ctx context.Context, caller Caller, q ListQuery) ([]LearningModuleView, error) {
	skip, count, err := pageBounds(q.Page, s.pageSize)
	if err != nil {
		return nil, err
	}
	uow := s.uows.New()
	var rows []*types.LearningModule
	switch {
	case q.ExcludeEmpty:
		rows, err = uow.LearningModules.SearchWithResources(ctx, q.Filter)
	case q.Filter.IsEmpty():
		rows, err = uow.LearningModules.List(ctx, skip, count)
	default:
		rows, err = uow.LearningModules.Search(ctx, q.Filter, skip, count)
	}
	if err != nil {
		return nil, err
	}
	return s.views.modules(ctx, uow, caller, rows)
}

func (s *learningModuleService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*LearningModuleView, error) {
	if err := requireID(id, "learning module"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, uow, caller, row)
}

func (s *learningModuleService) Create(ctx context.Context, caller Caller, in *LearningModuleInput) (*LearningModuleView, error) {
	if err := validateModuleInput(in); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	if err := checkTitleFree(ctx, uow.LearningModules.GetByTitle, func(m *types.LearningModule) uuid.UUID { return m.ID }, in.Title, uuid.Nil, "learning module"); err != nil {
		return nil, err
	}
	tagIDs, err := checkReferences(ctx, uow, in.GradeID, in.SubjectID, in.TagIDs)
	if err != nil {
		return nil, err
	}

	row := &types.LearningModule{Audit: types.NewAudit(caller.UserID)}
	applyModuleInput(row, in)
	uow.LearningModules.Add(row)
	uow.LearningModuleTags.AddRange(moduleTags(row.ID, tagIDs))
	if err := commit(ctx, s.log, uow, "create learning module", invalidReference()); err != nil {
		return nil, err
	}
	s.log.Info("Learning module created", "learning_module_id", row.ID, "created_by", caller.UserID)
	return s.reload(ctx, caller, row.ID)
}

func (s *learningModuleService) Update(ctx context.Context, caller Caller, id uuid.UUID, in *LearningModuleInput) (*LearningModuleView, error) {
	if err := requireID(id, "learning module"); err != nil {
		return nil, err
	}
	if err := validateModuleInput(in); err != nil {
		return nil, err
	}
	if err := requireSameID(id, in.ID); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := s.auth.requireOwnerOrAdmin(ctx, caller, row.CreatedBy, "learning module"); err != nil {
		return nil, err
	}
	if err := checkTitleFree(ctx, uow.LearningModules.GetByTitle, func(m *types.LearningModule) uuid.UUID { return m.ID }, in.Title, id, "learning module"); err != nil {
		return nil, err
	}
	tagIDs, err := checkReferences(ctx, uow, in.GradeID, in.SubjectID, in.TagIDs)
	if err != nil {
		return nil, err
	}

	applyModuleInput(row, in)
	row.Grade, row.Subject = nil, nil
	row.Touch(caller.UserID)
	uow.LearningModules.Update(row)
	uow.LearningModuleTags.DeleteByModuleID(id)
	uow.LearningModuleTags.AddRange(moduleTags(id, tagIDs))
	if err := commit(ctx, s.log, uow, "update learning module", invalidReference()); err != nil {
		return nil, err
	}
	return s.reload(ctx, caller, id)
}

func (s *learningModuleService) Delete(ctx context.Context, caller Caller, id uuid.UUID) (*LearningModuleView, error) {
	if err := requireID(id, "learning module"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := s.auth.requireOwnerOrAdmin(ctx, caller, row.CreatedBy, "learning module"); err != nil {
		return nil, err
	}
	view, err := s.view(ctx, uow, caller, row)
	if err != nil {
		return nil, err
	}

	uow.LearningModuleTags.DeleteByModuleID(id)
	uow.LearningModuleVotes.DeleteByModuleID(id)
	uow.ResourceModuleMappings.DeleteByModuleID(id)
	uow.UserLearningModules.DeleteByModuleID(id)
	uow.TabConfigurations.DeleteByModuleID(id)
	uow.LearningModules.Delete(row)
	if err := commit(ctx, s.log, uow, "delete learning module", nil); err != nil {
		return nil, err
	}
	s.log.Info("Learning module deleted", "learning_module_id", id, "caller_id", caller.UserID)
	return view, nil
}

func (s *learningModuleService) Upvote(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := requireID(id, "learning module"); err != nil {
		return err
	}
	uow := s.uows.New()
	if _, err := s.load(ctx, uow, id); err != nil {
		return err
	}
	existing, err := uow.LearningModuleVotes.GetByModuleAndUser(ctx, id, caller.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apierr.Conflict("already_voted", "learning module %s already upvoted", id)
	}
	uow.LearningModuleVotes.Add(&types.LearningModuleVote{LearningModuleID: id, UserID: caller.UserID})
	err = commit(ctx, s.log, uow, "upvote learning module", nil)
	if ae, ok := apierr.As(err); ok && ae.Code == "already_exists" {
		return apierr.Conflict("already_voted", "learning module %s already upvoted", id)
	}
	return err
}

func (s *learningModuleService) Downvote(ctx context.Context, caller Caller, id uuid.UUID) (bool, error) {
	if err := requireID(id, "learning module"); err != nil {
		return false, err
	}
	uow := s.uows.New()
	vote, err := uow.LearningModuleVotes.GetByModuleAndUser(ctx, id, caller.UserID)
	if err != nil {
		return false, err
	}
	if vote == nil {
		return false, nil
	}
	uow.LearningModuleVotes.Delete(vote)
	if err := commit(ctx, s.log, uow, "downvote learning module", nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *learningModuleService) Authors(ctx context.Context, caller Caller) ([]AuthorView, error) {
	ids, err := s.uows.New().LearningModules.ListCreatedBy(ctx, maxAuthors)
	if err != nil {
		return nil, err
	}
	return s.views.authors(ctx, caller, ids), nil
}

func (s *learningModuleService) Resources(ctx context.Context, caller Caller, id uuid.UUID) ([]ResourceView, error) {
	if err := requireID(id, "learning module"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	if _, err := s.load(ctx, uow, id); err != nil {
		return nil, err
	}
	return s.mappedResources(ctx, uow, caller, id)
}

// AddResources links resources into a module. Resources already linked are
// skipped.
func (s *learningModuleService) AddResources(ctx context.Context, caller Caller, id uuid.UUID, resourceIDs []uuid.UUID) ([]ResourceView, error) {
	if err := requireID(id, "learning module"); err != nil {
		return nil, err
	}
	if len(resourceIDs) == 0 {
		return nil, apierr.BadRequest("invalid_payload", "at least one resource id is required")
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := s.auth.requireOwnerOrAdmin(ctx, caller, row.CreatedBy, "learning module"); err != nil {
		return nil, err
	}
	existing, err := uow.ResourceModuleMappings.GetByModuleID(ctx, id)
	if err != nil {
		return nil, err
	}
	linked := make(map[uuid.UUID]struct{}, len(existing))
	for _, m := range existing {
		linked[m.ResourceID] = struct{}{}
	}

	wanted := make([]uuid.UUID, 0, len(resourceIDs))
	for _, rid := range resourceIDs {
		if rid == uuid.Nil {
			continue
		}
		if _, ok := linked[rid]; ok {
			continue
		}
		linked[rid] = struct{}{}
		wanted = append(wanted, rid)
	}
	if len(wanted) > 0 {
		found, err := uow.Resources.GetByIDs(ctx, wanted)
		if err != nil {
			return nil, err
		}
		if len(found) != len(wanted) {
			return nil, apierr.BadRequest("invalid_resource", "one or more resources do not exist")
		}
		mappings := make([]*types.ResourceModuleMapping, 0, len(wanted))
		for _, rid := range wanted {
			mappings = append(mappings, &types.ResourceModuleMapping{ResourceID: rid, LearningModuleID: id, CreatedBy: caller.UserID})
		}
		uow.ResourceModuleMappings.AddRange(mappings)
		if err := commit(ctx, s.log, uow, "add module resources", invalidReference()); err != nil {
			return nil, err
		}
		s.log.Info("Resources added to learning module", "learning_module_id", id, "count", len(wanted))
	}
	return s.mappedResources(ctx, s.uows.New(), caller, id)
}

func (s *learningModuleService) RemoveResource(ctx context.Context, caller Caller, id, resourceID uuid.UUID) error {
	if err := requireID(id, "learning module"); err != nil {
		return err
	}
	if err := requireID(resourceID, "resource"); err != nil {
		return err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return err
	}
	if err := s.auth.requireOwnerOrAdmin(ctx, caller, row.CreatedBy, "learning module"); err != nil {
		return err
	}
	mapping, err := uow.ResourceModuleMappings.GetPair(ctx, resourceID, id)
	if err != nil {
		return err
	}
	if mapping == nil {
		return apierr.NotFound("mapping_not_found", "resource %s is not in learning module %s", resourceID, id)
	}
	uow.ResourceModuleMappings.DeleteRange([]*types.ResourceModuleMapping{mapping})
	return commit(ctx, s.log, uow, "remove module resource", nil)
}

func (s *learningModuleService) mappedResources(ctx context.Context, uow *repos.UnitOfWork, caller Caller, id uuid.UUID) ([]ResourceView, error) {
	mappings, err := uow.ResourceModuleMappings.GetByModuleID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows := make([]*types.Resource, 0, len(mappings))
	for _, m := range mappings {
		if m.Resource != nil {
			rows = append(rows, m.Resource)
		}
	}
	return s.views.resources(ctx, uow, caller, rows)
}

func (s *learningModuleService) load(ctx context.Context, uow *repos.UnitOfWork, id uuid.UUID) (*types.LearningModule, error) {
	row, err := uow.LearningModules.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("learning_module_not_found", "learning module %s not found", id)
	}
	return row, nil
}

func (s *learningModuleService) view(ctx context.Context, uow *repos.UnitOfWork, caller Caller, row *types.LearningModule) (*LearningModuleView, error) {
	views, err := s.views.modules(ctx, uow, caller, []*types.LearningModule{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *learningModuleService) reload(ctx context.Context, caller Caller, id uuid.UUID) (*LearningModuleView, error) {
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, uow, caller, row)
}

func validateModuleInput(in *LearningModuleInput) error {
	if in == nil {
		return apierr.BadRequest("invalid_payload", "learning module payload is required")
	}
	in.Title = strings.TrimSpace(in.Title)
	return validateContentFields(in.Title, in.Description, in.GradeID, in.SubjectID)
}

func applyModuleInput(row *types.LearningModule, in *LearningModuleInput) {
	row.Title = in.Title
	row.Description = strings.TrimSpace(in.Description)
	row.ImageURL = strings.TrimSpace(in.ImageURL)
	row.GradeID = in.GradeID
	row.SubjectID = in.SubjectID
}

func moduleTags(moduleID uuid.UUID, tagIDs []uuid.UUID) []*types.LearningModuleTag {
	out := make([]*types.LearningModuleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		out = append(out, &types.LearningModuleTag{LearningModuleID: moduleID, TagID: tagID})
	}
	return out
}
