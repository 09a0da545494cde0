package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	"github.com/yungbote/learnnow-backend/internal/observability"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// Caller is the authenticated user a request runs as. The token is
// forwarded to Microsoft Graph.
type Caller struct {
	UserID uuid.UUID
	Token  string
}

type Directory interface {
	DisplayNames(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type Membership interface {
	IsMember(ctx context.Context, token string, userID uuid.UUID, groupID string) (bool, error)
}

// Groups holds the security group ids with special rights.
type Groups struct {
	Admin     string
	Teacher   string
	Moderator string
}

const DefaultPageSize = 50

// pageBounds turns a zero-based page number into skip/count.
func pageBounds(page, pageSize int) (int, int, error) {
	if page < 0 {
		return 0, 0, apierr.BadRequest("invalid_page", "page must not be negative")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page * pageSize, pageSize, nil
}

// authorizer decides whether a caller may change a creator-owned entity.
type authorizer struct {
	membership Membership
	groups     Groups
}

func (a authorizer) requireOwnerOrAdmin(ctx context.Context, caller Caller, ownerID uuid.UUID, what string) error {
	if caller.UserID != uuid.Nil && caller.UserID == ownerID {
		return nil
	}
	if a.membership == nil || a.groups.Admin == "" {
		return apierr.Unauthorized("not_owner", "only the creator can modify this %s", what)
	}
	ok, err := a.membership.IsMember(ctx, caller.Token, caller.UserID, a.groups.Admin)
	if err != nil {
		return fmt.Errorf("check admin membership: %w", err)
	}
	if !ok {
		return apierr.Unauthorized("not_owner", "only the creator or an admin can modify this %s", what)
	}
	return nil
}

// commit saves uow and translates integrity violations. onForeignKey is
// returned for foreign key violations; nil means has_dependents.
func commit(ctx context.Context, log *logger.Logger, uow *repos.UnitOfWork, op string, onForeignKey *apierr.Error) error {
	ctx, span := observability.Tracer().Start(ctx, "uow.commit", trace.WithAttributes(attribute.String("uow.op", op)))
	defer span.End()

	outcome, err := classifyCommit(uow.SaveChanges(ctx), op, onForeignKey)
	observability.Current().ObserveCommit(outcome)
	span.SetAttributes(attribute.String("uow.outcome", outcome))
	if outcome == "error" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("SaveChanges failed", append([]interface{}{"op", op, "error", err}, ctxutil.LogFields(ctx)...)...)
	}
	return err
}

func classifyCommit(err error, op string, onForeignKey *apierr.Error) (string, error) {
	switch {
	case err == nil:
		return "ok", nil
	case repos.IsConstraint(err, repos.ConstraintUnique):
		return "conflict", apierr.New(http.StatusConflict, "already_exists", fmt.Errorf("%s: a matching record already exists", op))
	case repos.IsConstraint(err, repos.ConstraintForeignKey):
		if onForeignKey != nil {
			return "conflict", onForeignKey
		}
		return "conflict", apierr.New(http.StatusConflict, "has_dependents", fmt.Errorf("%s: record is still referenced", op))
	default:
		return "error", fmt.Errorf("%s: %w", op, err)
	}
}

func requireID(id uuid.UUID, what string) error {
	if id == uuid.Nil {
		return apierr.BadRequest("invalid_id", "%s id is required", what)
	}
	return nil
}

// requireSameID enforces that a body id, when present, matches the route id.
func requireSameID(routeID uuid.UUID, bodyID *uuid.UUID) error {
	if bodyID != nil && *bodyID != uuid.Nil && *bodyID != routeID {
		return apierr.BadRequest("id_mismatch", "route id %s does not match body id %s", routeID, *bodyID)
	}
	return nil
}
