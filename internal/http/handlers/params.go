package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	"github.com/yungbote/learnnow-backend/internal/http/response"
	"github.com/yungbote/learnnow-backend/internal/services"
)

// callerOrAbort reads the caller set by the auth middleware and answers 401
// when there is none.
func callerOrAbort(c *gin.Context) (services.Caller, bool) {
	caller, ok := services.CallerFromContext(c.Request.Context())
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return services.Caller{}, false
	}
	return caller, true
}

func pathID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryIDs accepts both repeated parameters (?gradeIds=a&gradeIds=b) and
// comma-separated values (?gradeIds=a,b).
func queryIDs(c *gin.Context, name string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

// listQuery parses the paging and filter parameters shared by the resource
// and learning module listings.
func listQuery(c *gin.Context) (services.ListQuery, bool) {
	var q services.ListQuery
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_page", err)
			return q, false
		}
		q.Page = page
	}

	var f repos.Filter
	for _, p := range []struct {
		name string
		dst  *[]uuid.UUID
	}{
		{"gradeIds", &f.GradeIDs},
		{"subjectIds", &f.SubjectIDs},
		{"createdByIds", &f.CreatedByIDs},
		{"tagIds", &f.TagIDs},
	} {
		ids, err := queryIDs(c, p.name)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
			return q, false
		}
		*p.dst = ids
	}
	f.SearchText = strings.TrimSpace(c.Query("searchText"))
	exact, ok := queryBool(c, "exactMatch")
	if !ok {
		return q, false
	}
	f.ExactMatch = exact
	q.Filter = f

	excludeEmpty, ok := queryBool(c, "excludeEmpty")
	if !ok {
		return q, false
	}
	q.ExcludeEmpty = excludeEmpty
	return q, true
}

func queryBool(c *gin.Context, name string) (bool, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return false, false
	}
	return v, true
}
