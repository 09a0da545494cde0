package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// GroupMemberService answers whether the caller belongs to a security group.
// The aliases "admin", "teacher" and "moderator" resolve to the configured
// group ids; anything else is used as a group id verbatim.
type GroupMemberService interface {
	IsMember(ctx context.Context, caller Caller, group string) (bool, error)
}

type groupMemberService struct {
	log        *logger.Logger
	membership Membership
	groups     Groups
}

func NewGroupMemberService(membership Membership, groups Groups, baseLog *logger.Logger) GroupMemberService {
	return &groupMemberService{
		log:        baseLog.With("service", "GroupMemberService"),
		membership: membership,
		groups:     groups,
	}
}

func (s *groupMemberService) IsMember(ctx context.Context, caller Caller, group string) (bool, error) {
	groupID, err := s.resolve(group)
	if err != nil {
		return false, err
	}
	ok, err := s.membership.IsMember(ctx, caller.Token, caller.UserID, groupID)
	if err != nil {
		s.log.Warn("Membership check failed", "group_id", groupID, "error", err)
		return false, fmt.Errorf("check membership of %s: %w", groupID, err)
	}
	return ok, nil
}

func (s *groupMemberService) resolve(group string) (string, error) {
	group = strings.TrimSpace(group)
	var id string
	switch strings.ToLower(group) {
	case "":
		return "", apierr.BadRequest("invalid_group", "group id is required")
	case "admin":
		id = s.groups.Admin
	case "teacher":
		id = s.groups.Teacher
	case "moderator":
		id = s.groups.Moderator
	default:
		return group, nil
	}
	if id == "" {
		return "", apierr.BadRequest("invalid_group", "group %q is not configured", group)
	}
	return id, nil
}
