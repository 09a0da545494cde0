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

const (
	maxTitleLen       = 300
	maxDescriptionLen = 1000
	maxAuthors        = 1000
)

type ResourceInput struct {
	ID            *uuid.UUID
	Title         string
	Description   string
	ImageURL      string
	LinkURL       *string
	AttachmentURL *string
	ResourceType  types.ResourceType
	GradeID       uuid.UUID
	SubjectID     uuid.UUID
	TagIDs        []uuid.UUID
}

// ListQuery selects a page of resources or learning modules.
type ListQuery struct {
	Page   int
	Filter repos.Filter
	// ExcludeEmpty limits learning modules to those with resources. It
	// ignores pagination.
	ExcludeEmpty bool
}

type ResourceService interface {
	List(ctx context.Context, caller Caller, q ListQuery) ([]ResourceView, error)
	Get(ctx context.Context, caller Caller, id uuid.UUID) (*ResourceView, error)
	Create(ctx context.Context, caller Caller, in *ResourceInput) (*ResourceView, error)
	Update(ctx context.Context, caller Caller, id uuid.UUID, in *ResourceInput) (*ResourceView, error)
	Delete(ctx context.Context, caller Caller, id uuid.UUID) (*ResourceView, error)
	Upvote(ctx context.Context, caller Caller, id uuid.UUID) error
	// Downvote reports false when the caller had not voted.
	Downvote(ctx context.Context, caller Caller, id uuid.UUID) (bool, error)
	Authors(ctx context.Context, caller Caller) ([]AuthorView, error)
}

type resourceService struct {
	log      *logger.Logger
	uows     repos.UnitOfWorkFactory
	views    viewBuilder
	auth     authorizer
	pageSize int
}

func NewResourceService(
	uows repos.UnitOfWorkFactory,
	dir Directory,
	membership Membership,
	groups Groups,
	pageSize int,
	baseLog *logger.Logger,
) ResourceService {
	serviceLog := baseLog.With("service", "ResourceService")
	return &resourceService{
		log:      serviceLog,
		uows:     uows,
		views:    viewBuilder{log: serviceLog, dir: dir},
		auth:     authorizer{membership: membership, groups: groups},
		pageSize: pageSize,
	}
}

func (s *resourceService) List(ctx context.Context, caller Caller, q ListQuery) ([]ResourceView, error) {
	skip, count, err := pageBounds(q.Page, s.pageSize)
	if err != nil {
		return nil, err
	}
	uow := s.uows.New()
	var rows []*types.Resource
	if q.Filter.IsEmpty() {
		rows, err = uow.Resources.List(ctx, skip, count)
	} else {
		rows, err = uow.Resources.Search(ctx, q.Filter, skip, count)
	}
	if err != nil {
		return nil, err
	}
	return s.views.resources(ctx, uow, caller, rows)
}

func (s *resourceService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*ResourceView, error) {
	if err := requireID(id, "resource"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, uow, caller, row)
}

func (s *resourceService) Create(ctx context.Context, caller Caller, in *ResourceInput) (*ResourceView, error) {
	if err := validateResourceInput(in); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	if err := checkTitleFree(ctx, uow.Resources.GetByTitle, func(r *types.Resource) uuid.UUID { return r.ID }, in.Title, uuid.Nil, "resource"); err != nil {
		return nil, err
	}
	tagIDs, err := checkReferences(ctx, uow, in.GradeID, in.SubjectID, in.TagIDs)
	if err != nil {
		return nil, err
	}

	row := &types.Resource{Audit: types.NewAudit(caller.UserID)}
	applyResourceInput(row, in)
	uow.Resources.Add(row)
	uow.ResourceTags.AddRange(resourceTags(row.ID, tagIDs))
	if err := commit(ctx, s.log, uow, "create resource", invalidReference()); err != nil {
		return nil, err
	}
	s.log.Info("Resource created", "resource_id", row.ID, "created_by", caller.UserID)
	return s.reload(ctx, caller, row.ID)
}

func (s *resourceService) Update(ctx context.Context, caller Caller, id uuid.UUID, in *ResourceInput) (*ResourceView, error) {
	if err := requireID(id, "resource"); err != nil {
		return nil, err
	}
	if err := validateResourceInput(in); err != nil {
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
	if err := s.auth.requireOwnerOrAdmin(ctx, caller, row.CreatedBy, "resource"); err != nil {
		return nil, err
	}
	if err := checkTitleFree(ctx, uow.Resources.GetByTitle, func(r *types.Resource) uuid.UUID { return r.ID }, in.Title, id, "resource"); err != nil {
		return nil, err
	}
	tagIDs, err := checkReferences(ctx, uow, in.GradeID, in.SubjectID, in.TagIDs)
	if err != nil {
		return nil, err
	}

	applyResourceInput(row, in)
	row.Grade, row.Subject = nil, nil
	row.Touch(caller.UserID)
	uow.Resources.Update(row)
	uow.ResourceTags.DeleteByResourceID(id)
	uow.ResourceTags.AddRange(resourceTags(id, tagIDs))
	if err := commit(ctx, s.log, uow, "update resource", invalidReference()); err != nil {
		return nil, err
	}
	return s.reload(ctx, caller, id)
}

func (s *resourceService) Delete(ctx context.Context, caller Caller, id uuid.UUID) (*ResourceView, error) {
	if err := requireID(id, "resource"); err != nil {
		return nil, err
	}
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := s.auth.requireOwnerOrAdmin(ctx, caller, row.CreatedBy, "resource"); err != nil {
		return nil, err
	}
	view, err := s.view(ctx, uow, caller, row)
	if err != nil {
		return nil, err
	}

	uow.ResourceTags.DeleteByResourceID(id)
	uow.ResourceVotes.DeleteByResourceID(id)
	uow.ResourceModuleMappings.DeleteByResourceID(id)
	uow.UserResources.DeleteByResourceID(id)
	uow.Resources.Delete(row)
	if err := commit(ctx, s.log, uow, "delete resource", nil); err != nil {
		return nil, err
	}
	s.log.Info("Resource deleted", "resource_id", id, "caller_id", caller.UserID)
	return view, nil
}

func (s *resourceService) Upvote(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := requireID(id, "resource"); err != nil {
		return err
	}
	uow := s.uows.New()
	if _, err := s.load(ctx, uow, id); err != nil {
		return err
	}
	existing, err := uow.ResourceVotes.GetByResourceAndUser(ctx, id, caller.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apierr.Conflict("already_voted", "resource %s already upvoted", id)
	}
	uow.ResourceVotes.Add(&types.ResourceVote{ResourceID: id, UserID: caller.UserID})
	err = commit(ctx, s.log, uow, "upvote resource", nil)
	if ae, ok := apierr.As(err); ok && ae.Code == "already_exists" {
		return apierr.Conflict("already_voted", "resource %s already upvoted", id)
	}
	return err
}

func (s *resourceService) Downvote(ctx context.Context, caller Caller, id uuid.UUID) (bool, error) {
	if err := requireID(id, "resource"); err != nil {
		return false, err
	}
	uow := s.uows.New()
	vote, err := uow.ResourceVotes.GetByResourceAndUser(ctx, id, caller.UserID)
	if err != nil {
		return false, err
	}
	if vote == nil {
		return false, nil
	}
	uow.ResourceVotes.Delete(vote)
	if err := commit(ctx, s.log, uow, "downvote resource", nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *resourceService) Authors(ctx context.Context, caller Caller) ([]AuthorView, error) {
	ids, err := s.uows.New().Resources.ListCreatedBy(ctx, maxAuthors)
	if err != nil {
		return nil, err
	}
	return s.views.authors(ctx, caller, ids), nil
}

func (s *resourceService) load(ctx context.Context, uow *repos.UnitOfWork, id uuid.UUID) (*types.Resource, error) {
	row, err := uow.Resources.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("resource_not_found", "resource %s not found", id)
	}
	return row, nil
}

func (s *resourceService) view(ctx context.Context, uow *repos.UnitOfWork, caller Caller, row *types.Resource) (*ResourceView, error) {
	views, err := s.views.resources(ctx, uow, caller, []*types.Resource{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *resourceService) reload(ctx context.Context, caller Caller, id uuid.UUID) (*ResourceView, error) {
	uow := s.uows.New()
	row, err := s.load(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, uow, caller, row)
}

func validateResourceInput(in *ResourceInput) error {
	if in == nil {
		return apierr.BadRequest("invalid_payload", "resource payload is required")
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateContentFields(in.Title, in.Description, in.GradeID, in.SubjectID); err != nil {
		return err
	}
	if !in.ResourceType.Valid() {
		return apierr.BadRequest("invalid_resource_type", "unknown resource type %d", in.ResourceType)
	}
	in.LinkURL = trimOptional(in.LinkURL)
	in.AttachmentURL = trimOptional(in.AttachmentURL)
	return nil
}

func validateContentFields(title, description string, gradeID, subjectID uuid.UUID) error {
	switch {
	case title == "":
		return apierr.BadRequest("invalid_title", "title is required")
	case len(title) > maxTitleLen:
		return apierr.BadRequest("invalid_title", "title must be at most %d characters", maxTitleLen)
	case len(description) > maxDescriptionLen:
		return apierr.BadRequest("invalid_description", "description must be at most %d characters", maxDescriptionLen)
	case gradeID == uuid.Nil:
		return apierr.BadRequest("invalid_grade", "grade id is required")
	case subjectID == uuid.Nil:
		return apierr.BadRequest("invalid_subject", "subject id is required")
	}
	return nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func applyResourceInput(row *types.Resource, in *ResourceInput) {
	row.Title = in.Title
	row.Description = strings.TrimSpace(in.Description)
	row.ImageURL = strings.TrimSpace(in.ImageURL)
	row.LinkURL = in.LinkURL
	row.AttachmentURL = in.AttachmentURL
	row.ResourceType = in.ResourceType
	row.GradeID = in.GradeID
	row.SubjectID = in.SubjectID
}

func resourceTags(resourceID uuid.UUID, tagIDs []uuid.UUID) []*types.ResourceTag {
	out := make([]*types.ResourceTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		out = append(out, &types.ResourceTag{ResourceID: resourceID, TagID: tagID})
	}
	return out
}

// checkTitleFree rejects a title already used by another row.
func checkTitleFree[T any](
	ctx context.Context,
	byTitle func(ctx context.Context, title string) ([]*T, error),
	idOf func(*T) uuid.UUID,
	title string,
	self uuid.UUID,
	what string,
) error {
	matches, err := byTitle(ctx, title)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if idOf(m) != self {
			return apierr.Conflict("already_exists", "%s %q already exists", what, title)
		}
	}
	return nil
}

// checkReferences verifies grade, subject and tags exist and returns the
// tag ids without duplicates.
func checkReferences(ctx context.Context, uow *repos.UnitOfWork, gradeID, subjectID uuid.UUID, tagIDs []uuid.UUID) ([]uuid.UUID, error) {
	grade, err := uow.Grades.Get(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, apierr.BadRequest("invalid_grade", "grade %s does not exist", gradeID)
	}
	subject, err := uow.Subjects.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, apierr.BadRequest("invalid_subject", "subject %s does not exist", subjectID)
	}

	seen := map[uuid.UUID]struct{}{}
	unique := make([]uuid.UUID, 0, len(tagIDs))
	for _, id := range tagIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return unique, nil
	}
	tags, err := uow.Tags.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, apierr.BadRequest("invalid_tag", "one or more tags do not exist")
	}
	return unique, nil
}

func invalidReference() *apierr.Error {
	return apierr.BadRequest("invalid_reference", "a referenced grade, subject or tag no longer exists")
}
