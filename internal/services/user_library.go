package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// UserLibraryService manages the resources and learning modules a user has
// saved for later.
type UserLibraryService interface {
	Resources(ctx context.Context, caller Caller) ([]ResourceView, error)
	SaveResource(ctx context.Context, caller Caller, resourceID uuid.UUID) (*ResourceView, error)
	RemoveResource(ctx context.Context, caller Caller, resourceID uuid.UUID) error

	LearningModules(ctx context.Context, caller Caller) ([]LearningModuleView, error)
	SaveLearningModule(ctx context.Context, caller Caller, moduleID uuid.UUID) (*LearningModuleView, error)
	RemoveLearningModule(ctx context.Context, caller Caller, moduleID uuid.UUID) error
}

type userLibraryService struct {
	log   *logger.Logger
	uows  repos.UnitOfWorkFactory
	views viewBuilder
}

func NewUserLibraryService(uows repos.UnitOfWorkFactory, dir Directory, baseLog *logger.Logger) UserLibraryService {
	serviceLog := baseLog.With("service", "UserLibraryService")
	return &userLibraryService{
		log:   serviceLog,
		uows:  uows,
		views: viewBuilder{log: serviceLog, dir: dir},
	}
}

func (s *userLibraryService) Resources(ctx context.Context, caller Caller) ([]ResourceView, error) {
	uow := s.uows.New()
	saves, err := uow.UserResources.GetByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	rows := make([]*types.Resource, 0, len(saves))
	for _, sv := range saves {
		if sv.Resource != nil {
			rows = append(rows, sv.Resource)
		}
	}
	return s.views.resources(ctx, uow, caller, rows)
}

func (s *userLibraryService) SaveResource(ctx context.Context, caller Caller, resourceID uuid.UUID) (*ResourceView, error) {
	if err := requireID(resourceID, "resource"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := uow.Resources.GetDetailed(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("resource_not_found", "resource %s not found", resourceID)
	}
	existing, err := uow.UserResources.GetByUserAndResource(ctx, caller.UserID, resourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.Conflict("already_saved", "resource %s is already saved", resourceID)
	}
	uow.UserResources.Add(&types.UserResource{UserID: caller.UserID, ResourceID: resourceID})
	if err := commit(ctx, s.log, uow, "save resource", nil); err != nil {
		return nil, err
	}
	views, err := s.views.resources(ctx, s.uows.New(), caller, []*types.Resource{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *userLibraryService) RemoveResource(ctx context.Context, caller Caller, resourceID uuid.UUID) error {
	if err := requireID(resourceID, "resource"); err != nil {
		return err
	}
	uow := s.uows.New()
	existing, err := uow.UserResources.GetByUserAndResource(ctx, caller.UserID, resourceID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierr.NotFound("saved_resource_not_found", "resource %s is not saved", resourceID)
	}
	uow.UserResources.Delete(existing)
	return commit(ctx, s.log, uow, "remove saved resource", nil)
}

func (s *userLibraryService) LearningModules(ctx context.Context, caller Caller) ([]LearningModuleView, error) {
	uow := s.uows.New()
	saves, err := uow.UserLearningModules.GetByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	rows := make([]*types.LearningModule, 0, len(saves))
	for _, sv := range saves {
		if sv.LearningModule != nil {
			rows = append(rows, sv.LearningModule)
		}
	}
	return s.views.modules(ctx, uow, caller, rows)
}

func (s *userLibraryService) SaveLearningModule(ctx context.Context, caller Caller, moduleID uuid.UUID) (*LearningModuleView, error) {
	if err := requireID(moduleID, "learning module"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := uow.LearningModules.GetDetailed(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("learning_module_not_found", "learning module %s not found", moduleID)
	}
	existing, err := uow.UserLearningModules.GetByUserAndModule(ctx, caller.UserID, moduleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.Conflict("already_saved", "learning module %s is already saved", moduleID)
	}
	uow.UserLearningModules.Add(&types.UserLearningModule{UserID: caller.UserID, LearningModuleID: moduleID})
	if err := commit(ctx, s.log, uow, "save learning module", nil); err != nil {
		return nil, err
	}
	views, err := s.views.modules(ctx, s.uows.New(), caller, []*types.LearningModule{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *userLibraryService) RemoveLearningModule(ctx context.Context, caller Caller, moduleID uuid.UUID) error {
	if err := requireID(moduleID, "learning module"); err != nil {
		return err
	}
	uow := s.uows.New()
	existing, err := uow.UserLearningModules.GetByUserAndModule(ctx, caller.UserID, moduleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierr.NotFound("saved_learning_module_not_found", "learning module %s is not saved", moduleID)
	}
	uow.UserLearningModules.Delete(existing)
	return commit(ctx, s.log, uow, "remove saved learning module", nil)
}
