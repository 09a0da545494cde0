package graph

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// IsMember reports whether userID belongs to the security group groupID,
// directly or transitively.
func (c *Client) IsMember(ctx context.Context, token string, userID uuid.UUID, groupID string) (bool, error) {
	groupID = strings.TrimSpace(groupID)
	if userID == uuid.Nil || groupID == "" {
		return false, nil
	}
	req := struct {
		GroupIDs []string `json:"groupIds"`
	}{GroupIDs: []string{groupID}}
	var resp struct {
		Value []string `json:"value"`
	}
	path := "/users/" + url.PathEscape(userID.String()) + "/checkMemberGroups"
	if err := c.postJSON(ctx, token, path, req, &resp); err != nil {
		return false, err
	}
	for _, v := range resp.Value {
		if strings.EqualFold(strings.TrimSpace(v), groupID) {
			return true, nil
		}
	}
	return false, nil
}
