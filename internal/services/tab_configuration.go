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

type TabConfigurationView struct {
	ID               uuid.UUID           `json:"id"`
	TeamID           string              `json:"teamId"`
	ChannelID        string              `json:"channelId"`
	GroupID          string              `json:"groupId"`
	TabID            string              `json:"tabId"`
	LearningModuleID uuid.UUID           `json:"learningModuleId"`
	LearningModule   *LearningModuleView `json:"learningModule,omitempty"`
	AuditView
}

type TabConfigurationInput struct {
	ID               *uuid.UUID
	TeamID           string
	ChannelID        string
	GroupID          string
	TabID            string
	LearningModuleID uuid.UUID
}

type TabConfigurationService interface {
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*TabConfigurationView, error)
	GetByTabAndGroup(ctx context.Context, caller Caller, tabID, groupID string) (*TabConfigurationView, error)
	Create(ctx context.Context, caller Caller, in *TabConfigurationInput) (*TabConfigurationView, error)
	Update(ctx context.Context, caller Caller, id uuid.UUID, in *TabConfigurationInput) (*TabConfigurationView, error)
	Delete(ctx context.Context, caller Caller, id uuid.UUID) (*TabConfigurationView, error)
}

type tabConfigurationService struct {
	log   *logger.Logger
	uows  repos.UnitOfWorkFactory
	views viewBuilder
}

func NewTabConfigurationService(uows repos.UnitOfWorkFactory, dir Directory, baseLog *logger.Logger) TabConfigurationService {
	serviceLog := baseLog.With("service", "TabConfigurationService")
	return &tabConfigurationService{
		log:   serviceLog,
		uows:  uows,
		views: viewBuilder{log: serviceLog, dir: dir},
	}
}

func (s *tabConfigurationService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*TabConfigurationView, error) {
	if err := requireID(id, "tab configuration"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, uow, caller, row)
}

func (s *tabConfigurationService) GetByTabAndGroup(ctx context.Context, caller Caller, tabID, groupID string) (*TabConfigurationView, error) {
	tabID, groupID = strings.TrimSpace(tabID), strings.TrimSpace(groupID)
	if tabID == "" || groupID == "" {
		return nil, apierr.BadRequest("invalid_query", "tabId and groupId are required")
	}
	uow := s.uows.New()
	row, err := uow.TabConfigurations.GetByTabAndGroup(ctx, tabID, groupID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("tab_configuration_not_found", "no tab configuration for tab %s in group %s", tabID, groupID)
	}
	return s.view(ctx, uow, caller, row)
}

func (s *tabConfigurationService) Create(ctx context.Context, caller Caller, in *TabConfigurationInput) (*TabConfigurationView, error) {
	if err := validateTabInput(in); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	if err := s.checkTabFree(ctx, uow, in.TabID, in.GroupID, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkModule(ctx, uow, in.LearningModuleID); err != nil {
		return nil, err
	}

	row := &types.TabConfiguration{Audit: types.NewAudit(caller.UserID)}
	applyTabInput(row, in)
	uow.TabConfigurations.Add(row)
	if err := commit(ctx, s.log, uow, "create tab configuration", invalidReference()); err != nil {
		return nil, err
	}
	s.log.Info("Tab configuration created", "tab_configuration_id", row.ID, "tab_id", row.TabID, "group_id", row.GroupID)
	return s.reload(ctx, caller, row.ID)
}

func (s *tabConfigurationService) Update(ctx context.Context, caller Caller, id uuid.UUID, in *TabConfigurationInput) (*TabConfigurationView, error) {
	if err := requireID(id, "tab configuration"); err != nil {
		return nil, err
	}
	if err := validateTabInput(in); err != nil {
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
	if err := s.checkTabFree(ctx, uow, in.TabID, in.GroupID, id); err != nil {
		return nil, err
	}
	if err := s.checkModule(ctx, uow, in.LearningModuleID); err != nil {
		return nil, err
	}

	applyTabInput(row, in)
	row.LearningModule = nil
	row.Touch(caller.UserID)
	uow.TabConfigurations.Update(row)
	if err := commit(ctx, s.log, uow, "update tab configuration", invalidReference()); err != nil {
		return nil, err
	}
	return s.reload(ctx, caller, id)
}

func (s *tabConfigurationService) Delete(ctx context.Context, caller Caller, id uuid.UUID) (*TabConfigurationView, error) {
	if err := requireID(id, "tab configuration"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	view, err := s.view(ctx, uow, caller, row)
	if err != nil {
		return nil, err
	}
	uow.TabConfigurations.Delete(row)
	if err := commit(ctx, s.log, uow, "delete tab configuration", nil); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *tabConfigurationService) checkTabFree(ctx context.Context, uow *repos.UnitOfWork, tabID, groupID string, self uuid.UUID) error {
	existing, err := uow.TabConfigurations.GetByTabAndGroup(ctx, tabID, groupID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apierr.Conflict("already_exists", "tab %s in group %s is already configured", tabID, groupID)
	}
	return nil
}

func (s *tabConfigurationService) checkModule(ctx context.Context, uow *repos.UnitOfWork, id uuid.UUID) error {
	m, err := uow.LearningModules.Get(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apierr.BadRequest("invalid_learning_module", "learning module %s does not exist", id)
	}
	return nil
}

func (s *tabConfigurationService) load(ctx context.Context, uow *repos.UnitOfWork, id uuid.UUID) (*types.TabConfiguration, error) {
	row, err := uow.TabConfigurations.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("tab_configuration_not_found", "tab configuration %s not found", id)
	}
	return row, nil
}

func (s *tabConfigurationService) reload(ctx context.Context, caller Caller, id uuid.UUID) (*TabConfigurationView, error) {
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, uow, caller, row)
}

func (s *tabConfigurationService) view(ctx context.Context, uow *repos.UnitOfWork, caller Caller, row *types.TabConfiguration) (*TabConfigurationView, error) {
	out := &TabConfigurationView{
		ID:               row.ID,
		TeamID:           row.TeamID,
		ChannelID:        row.ChannelID,
		GroupID:          row.GroupID,
		TabID:            row.TabID,
		LearningModuleID: row.LearningModuleID,
	}
	if row.LearningModule != nil {
		modules, err := s.views.modules(ctx, uow, caller, []*types.LearningModule{row.LearningModule})
		if err != nil {
			return nil, err
		}
		out.LearningModule = &modules[0]
	}
	out.AuditView = auditView(row.Audit, s.views.names(ctx, caller, auditIDs(row.Audit)))
	return out, nil
}

func validateTabInput(in *TabConfigurationInput) error {
	if in == nil {
		return apierr.BadRequest("invalid_payload", "tab configuration payload is required")
	}
	in.TeamID = strings.TrimSpace(in.TeamID)
	in.ChannelID = strings.TrimSpace(in.ChannelID)
	in.GroupID = strings.TrimSpace(in.GroupID)
	in.TabID = strings.TrimSpace(in.TabID)
	switch {
	case in.TabID == "":
		return apierr.BadRequest("invalid_tab", "tab id is required")
	case in.GroupID == "":
		return apierr.BadRequest("invalid_group", "group id is required")
	case in.LearningModuleID == uuid.Nil:
		return apierr.BadRequest("invalid_learning_module", "learning module id is required")
	}
	return nil
}

func applyTabInput(row *types.TabConfiguration, in *TabConfigurationInput) {
	row.TeamID = in.TeamID
	row.ChannelID = in.ChannelID
	row.GroupID = in.GroupID
	row.TabID = in.TabID
	row.LearningModuleID = in.LearningModuleID
}
