package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	types "github.com/yungbote/learnnow-backend/internal/domain"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// UserSettingsView is the caller's saved filter selections. Lists are never
// nil.
type UserSettingsView struct {
	UserID                  uuid.UUID   `json:"userId"`
	ResourceGrades          []uuid.UUID `json:"resourceGrades"`
	ResourceSubjects        []uuid.UUID `json:"resourceSubjects"`
	ResourceCreatedBy       []uuid.UUID `json:"resourceCreatedBy"`
	ResourceTags            []uuid.UUID `json:"resourceTags"`
	LearningModuleGrades    []uuid.UUID `json:"learningModuleGrades"`
	LearningModuleSubjects  []uuid.UUID `json:"learningModuleSubjects"`
	LearningModuleCreatedBy []uuid.UUID `json:"learningModuleCreatedBy"`
	LearningModuleTags      []uuid.UUID `json:"learningModuleTags"`
}

type UserSettingsInput struct {
	UserID                  *uuid.UUID
	ResourceGrades          []uuid.UUID
	ResourceSubjects        []uuid.UUID
	ResourceCreatedBy       []uuid.UUID
	ResourceTags            []uuid.UUID
	LearningModuleGrades    []uuid.UUID
	LearningModuleSubjects  []uuid.UUID
	LearningModuleCreatedBy []uuid.UUID
	LearningModuleTags      []uuid.UUID
}

type UserSettingsService interface {
	// Get returns empty settings when the caller never saved any.
	Get(ctx context.Context, caller Caller) (*UserSettingsView, error)
	Create(ctx context.Context, caller Caller, in *UserSettingsInput) (*UserSettingsView, error)
	Update(ctx context.Context, caller Caller, userID uuid.UUID, in *UserSettingsInput) (*UserSettingsView, error)
}

type userSettingsService struct {
	log  *logger.Logger
	uows repos.UnitOfWorkFactory
}

func NewUserSettingsService(uows repos.UnitOfWorkFactory, baseLog *logger.Logger) UserSettingsService {
	return &userSettingsService{
		log:  baseLog.With("service", "UserSettingsService"),
		uows: uows,
	}
}

func (s *userSettingsService) Get(ctx context.Context, caller Caller) (*UserSettingsView, error) {
	if err := requireID(caller.UserID, "user"); err != nil {
		return nil, err
	}
	row, err := s.uows.New().UserSettings.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &types.UserSettings{UserID: caller.UserID}
	}
	return settingsView(row), nil
}

func (s *userSettingsService) Create(ctx context.Context, caller Caller, in *UserSettingsInput) (*UserSettingsView, error) {
	if in == nil {
		return nil, apierr.BadRequest("invalid_payload", "user settings payload is required")
	}
	if err := requireID(caller.UserID, "user"); err != nil {
		return nil, err
	}
	if err := requireSameID(caller.UserID, in.UserID); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	existing, err := uow.UserSettings.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.Conflict("already_exists", "settings for user %s already exist", caller.UserID)
	}
	row := &types.UserSettings{UserID: caller.UserID}
	applySettingsInput(row, in)
	uow.UserSettings.Add(row)
	if err := commit(ctx, s.log, uow, "create user settings", nil); err != nil {
		return nil, err
	}
	return settingsView(row), nil
}

func (s *userSettingsService) Update(ctx context.Context, caller Caller, userID uuid.UUID, in *UserSettingsInput) (*UserSettingsView, error) {
	if in == nil {
		return nil, apierr.BadRequest("invalid_payload", "user settings payload is required")
	}
	if err := requireID(userID, "user"); err != nil {
		return nil, err
	}
	if err := requireSameID(userID, in.UserID); err != nil {
		return nil, err
	}
	if userID != caller.UserID {
		return nil, apierr.Unauthorized("not_owner", "settings belong to another user")
	}
	uow := s.uows.New()
	row, err := uow.UserSettings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("user_settings_not_found", "no settings for user %s", userID)
	}
	applySettingsInput(row, in)
	uow.UserSettings.Update(row)
	if err := commit(ctx, s.log, uow, "update user settings", nil); err != nil {
		return nil, err
	}
	return settingsView(row), nil
}

func applySettingsInput(row *types.UserSettings, in *UserSettingsInput) {
	row.ResourceGradeIDs = types.JoinIDs(in.ResourceGrades)
	row.ResourceSubjectIDs = types.JoinIDs(in.ResourceSubjects)
	row.ResourceCreatedByIDs = types.JoinIDs(in.ResourceCreatedBy)
	row.ResourceTagIDs = types.JoinIDs(in.ResourceTags)
	row.ModuleGradeIDs = types.JoinIDs(in.LearningModuleGrades)
	row.ModuleSubjectIDs = types.JoinIDs(in.LearningModuleSubjects)
	row.ModuleCreatedByIDs = types.JoinIDs(in.LearningModuleCreatedBy)
	row.ModuleTagIDs = types.JoinIDs(in.LearningModuleTags)
}

func settingsView(row *types.UserSettings) *UserSettingsView {
	return &UserSettingsView{
		UserID:                  row.UserID,
		ResourceGrades:          types.SplitIDs(row.ResourceGradeIDs),
		ResourceSubjects:        types.SplitIDs(row.ResourceSubjectIDs),
		ResourceCreatedBy:       types.SplitIDs(row.ResourceCreatedByIDs),
		ResourceTags:            types.SplitIDs(row.ResourceTagIDs),
		LearningModuleGrades:    types.SplitIDs(row.ModuleGradeIDs),
		LearningModuleSubjects:  types.SplitIDs(row.ModuleSubjectIDs),
		LearningModuleCreatedBy: types.SplitIDs(row.ModuleCreatedByIDs),
		LearningModuleTags:      types.SplitIDs(row.ModuleTagIDs),
	}
}
