package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/learnnow-backend/internal/data/repos"
	"github.com/yungbote/learnnow-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnnow-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnnow-backend/internal/services"
)

const testUserHeader = "X-Test-User"

type staticDirectory struct{ names map[uuid.UUID]string }

func (d staticDirectory) DisplayNames(_ context.Context, _ string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	for _, id := range ids {
		if n, ok := d.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type staticMembership struct{ members map[string][]uuid.UUID }

func (m staticMembership) IsMember(_ context.Context, _ string, userID uuid.UUID, groupID string) (bool, error) {
	for _, id := range m.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type memoryBlobs struct{}

func (memoryBlobs) Upload(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
	return "https://blobs.test/" + key, nil
}

func (memoryBlobs) DownloadURL(_ context.Context, key string) (string, error) {
	return "https://blobs.test/" + key + "?sig", nil
}

type cannedImages []string

func (c cannedImages) Search(context.Context, string) ([]string, error) { return c, nil }

type apiTest struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	owner  uuid.UUID
	admin  uuid.UUID
	other  uuid.UUID
}

// fakeAuth stands in for the JWT middleware: the caller id comes from a test
// header.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(testUserHeader); raw != "" {
			id := uuid.MustParse(raw)
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: id, TokenString: "token"})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	a := &apiTest{t: t, db: db, owner: uuid.New(), admin: uuid.New(), other: uuid.New()}

	uows := repos.NewUnitOfWorkFactory(db, log)
	dir := staticDirectory{names: map[uuid.UUID]string{a.owner: "Olivia Owner", a.admin: "Adrian Admin"}}
	membership := staticMembership{members: map[string][]uuid.UUID{"admins": {a.admin}}}
	groups := services.Groups{Admin: "admins"}

	grades := NewCatalogHandler(log, "grade", services.NewGradeService(uows, dir, log))
	res := NewResourceHandler(log, services.NewResourceService(uows, dir, membership, groups, 2, log))
	mods := NewLearningModuleHandler(log, services.NewLearningModuleService(uows, dir, membership, groups, 2, log))
	tabs := NewTabConfigurationHandler(log, services.NewTabConfigurationService(uows, dir, log))
	users := NewUserHandler(log, services.NewUserSettingsService(uows, log), services.NewUserLibraryService(uows, dir, log))
	files := NewFileHandler(log, services.NewFileService(memoryBlobs{}, log))
	images := NewImageHandler(log, services.NewImageService(cannedImages{"https://img.test/1"}, log))
	members := NewGroupMemberHandler(log, services.NewGroupMemberService(membership, groups, log))

	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	api := r.Group("/api", fakeAuth())
	api.GET("/grade", grades.List)
	api.GET("/grade/:id", grades.Get)
	api.POST("/grade", grades.Create)
	api.PATCH("/grade/:id", grades.Update)
	api.DELETE("/grade/:id", grades.Delete)
	api.GET("/resources", res.List)
	api.GET("/resources/authors", res.Authors)
	api.GET("/resources/:id", res.Get)
	api.POST("/resources", res.Create)
	api.PATCH("/resources/:id", res.Update)
	api.DELETE("/resources/:id", res.Delete)
	api.POST("/resources/:id/upvote", res.Upvote)
	api.POST("/resources/:id/downvote", res.Downvote)
	api.GET("/learningmodules", mods.List)
	api.POST("/learningmodules", mods.Create)
	api.GET("/learningmodules/:id/resources", mods.Resources)
	api.POST("/learningmodules/:id/resources", mods.AddResources)
	api.DELETE("/learningmodules/:id/resources/:resourceId", mods.RemoveResource)
	api.GET("/tab-configuration", tabs.Lookup)
	api.POST("/tab-configuration", tabs.Create)
	api.GET("/usersettings", users.GetSettings)
	api.POST("/usersettings", users.CreateSettings)
	api.PATCH("/usersettings/:userId", users.UpdateSettings)
	api.GET("/me/resources", users.SavedResources)
	api.POST("/me/resources/:resourceId", users.SaveResource)
	api.DELETE("/me/resources/:resourceId", users.RemoveResource)
	api.POST("/file/upload", files.Upload)
	api.GET("/file/download", files.Download)
	api.GET("/image", images.Search)
	api.GET("/groupmember/:groupId", members.IsMember)
	a.router = r
	return a
}

func (a *apiTest) do(method, path string, as uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		req.Header.Set(testUserHeader, as.String())
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode[struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}](t, rec)
	require.Equal(t, code, env.Error.Code)
}

func (a *apiTest) createGrade(name string) uuid.UUID {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/grade", a.owner, map[string]string{"gradeName": name})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[struct {
		ID uuid.UUID `json:"id"`
	}](a.t, rec).ID
}

func (a *apiTest) createResource(title string, gradeID, subjectID uuid.UUID) services.ResourceView {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/resources", a.owner, map[string]interface{}{
		"title":        title,
		"description":  "about " + title,
		"resourceType": 5,
		"gradeId":      gradeID,
		"subjectId":    subjectID,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[services.ResourceView](a.t, rec)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	a := newAPITest(t)
	requireErrorCode(t, a.do(http.MethodGet, "/api/grade", uuid.Nil, nil), http.StatusUnauthorized, "unauthorized")

	rec := a.do(http.MethodGet, "/healthcheck", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestGradeEndpoints(t *testing.T) {
	a := newAPITest(t)
	id := a.createGrade("Grade 5")

	rec := a.do(http.MethodGet, "/api/grade/"+id.String(), a.other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]interface{}](t, rec)
	require.Equal(t, "Grade 5", got["gradeName"])
	require.Equal(t, "Olivia Owner", got["createdByName"])

	requireErrorCode(t, a.do(http.MethodPost, "/api/grade", a.other, map[string]string{"gradeName": "Grade 5"}), http.StatusConflict, "already_exists")
	requireErrorCode(t, a.do(http.MethodGet, "/api/grade/not-a-uuid", a.other, nil), http.StatusBadRequest, "invalid_id")
	requireErrorCode(t, a.do(http.MethodGet, "/api/grade/"+uuid.NewString(), a.other, nil), http.StatusNotFound, "grade_not_found")

	other := uuid.New()
	requireErrorCode(t, a.do(http.MethodPatch, "/api/grade/"+id.String(), a.owner, map[string]interface{}{"id": other, "gradeName": "x"}), http.StatusBadRequest, "id_mismatch")

	rec = a.do(http.MethodPatch, "/api/grade/"+id.String(), a.other, map[string]interface{}{"id": id, "gradeName": "Grade Five"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Grade Five", decode[map[string]interface{}](t, rec)["gradeName"])

	list := decode[[]map[string]interface{}](t, a.do(http.MethodGet, "/api/grade", a.other, nil))
	require.Len(t, list, 1)
}

func TestDeletingReferencedGradeConflicts(t *testing.T) {
	a := newAPITest(t)
	g, s := testutil.Catalog(t, context.Background(), a.db, a.owner)
	a.createResource("Fractions", g.ID, s.ID)

	requireErrorCode(t, a.do(http.MethodDelete, "/api/grade/"+g.ID.String(), a.owner, nil), http.StatusConflict, "has_dependents")
}

func TestResourceLifecycle(t *testing.T) {
	a := newAPITest(t)
	g, s := testutil.Catalog(t, context.Background(), a.db, a.owner)
	created := a.createResource("Photosynthesis", g.ID, s.ID)
	require.Equal(t, "Photosynthesis", created.Title)
	require.Equal(t, g.ID, created.Grade.ID)
	require.Equal(t, "Olivia Owner", created.CreatedByName)

	requireErrorCode(t, a.do(http.MethodPost, "/api/resources", a.owner, map[string]interface{}{"gradeId": g.ID, "subjectId": s.ID}), http.StatusBadRequest, "invalid_request")
	requireErrorCode(t, a.do(http.MethodPost, "/api/resources", a.other, map[string]interface{}{
		"title": "Photosynthesis", "gradeId": g.ID, "subjectId": s.ID,
	}), http.StatusConflict, "already_exists")

	path := "/api/resources/" + created.ID.String()
	patch := map[string]interface{}{"id": created.ID, "title": "Photosynthesis 101", "gradeId": g.ID, "subjectId": s.ID}
	requireErrorCode(t, a.do(http.MethodPatch, path, a.other, patch), http.StatusUnauthorized, "not_owner")

	rec := a.do(http.MethodPatch, path, a.admin, patch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[services.ResourceView](t, rec)
	require.Equal(t, "Photosynthesis 101", updated.Title)
	require.Equal(t, "Adrian Admin", updated.UpdatedByName)

	authors := decode[[]services.AuthorView](t, a.do(http.MethodGet, "/api/resources/authors", a.other, nil))
	require.Len(t, authors, 1)
	require.Equal(t, "Olivia Owner", authors[0].DisplayName)

	requireErrorCode(t, a.do(http.MethodDelete, path, a.other, nil), http.StatusUnauthorized, "not_owner")
	rec = a.do(http.MethodDelete, path, a.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requireErrorCode(t, a.do(http.MethodGet, path, a.owner, nil), http.StatusNotFound, "resource_not_found")
}

func TestResourceVoting(t *testing.T) {
	a := newAPITest(t)
	g, s := testutil.Catalog(t, context.Background(), a.db, a.owner)
	r := a.createResource("Volcanoes", g.ID, s.ID)
	base := "/api/resources/" + r.ID.String()

	rec := a.do(http.MethodPost, base+"/upvote", a.other, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "true", rec.Body.String())
	requireErrorCode(t, a.do(http.MethodPost, base+"/upvote", a.other, nil), http.StatusConflict, "already_voted")

	view := decode[services.ResourceView](t, a.do(http.MethodGet, base, a.other, nil))
	require.Equal(t, 1, view.VoteCount)
	require.True(t, view.IsVotedByUser)

	rec = a.do(http.MethodPost, base+"/downvote", a.other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", rec.Body.String())

	rec = a.do(http.MethodPost, base+"/downvote", a.other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "vote not found", decode[map[string]string](t, rec)["message"])

	requireErrorCode(t, a.do(http.MethodPost, "/api/resources/"+uuid.NewString()+"/upvote", a.other, nil), http.StatusNotFound, "resource_not_found")
}

func TestResourceListing(t *testing.T) {
	a := newAPITest(t)
	ctx := context.Background()
	g, s := testutil.Catalog(t, ctx, a.db, a.owner)
	g2 := testutil.SeedGrade(t, ctx, a.db, "Grade 9", a.owner)
	a.createResource("Atoms", g.ID, s.ID)
	a.createResource("Cells", g.ID, s.ID)
	a.createResource("Rocks", g2.ID, s.ID)

	first := decode[[]services.ResourceView](t, a.do(http.MethodGet, "/api/resources", a.other, nil))
	require.Len(t, first, 2)
	second := decode[[]services.ResourceView](t, a.do(http.MethodGet, "/api/resources?page=1", a.other, nil))
	require.Len(t, second, 1)

	filtered := decode[[]services.ResourceView](t, a.do(http.MethodGet, "/api/resources?gradeIds="+g2.ID.String(), a.other, nil))
	require.Len(t, filtered, 1)
	require.Equal(t, "Rocks", filtered[0].Title)

	both := decode[[]services.ResourceView](t, a.do(http.MethodGet, "/api/resources?gradeIds="+g.ID.String()+","+g2.ID.String()+"&searchText=ce", a.other, nil))
	require.Len(t, both, 1)
	require.Equal(t, "Cells", both[0].Title)

	exact := decode[[]services.ResourceView](t, a.do(http.MethodGet, "/api/resources?searchText=Atoms&exactMatch=true&gradeIds="+g2.ID.String(), a.other, nil))
	require.Len(t, exact, 1)

	requireErrorCode(t, a.do(http.MethodGet, "/api/resources?page=-1", a.other, nil), http.StatusBadRequest, "invalid_page")
	requireErrorCode(t, a.do(http.MethodGet, "/api/resources?page=x", a.other, nil), http.StatusBadRequest, "invalid_page")
	requireErrorCode(t, a.do(http.MethodGet, "/api/resources?tagIds=nope", a.other, nil), http.StatusBadRequest, "invalid_filter")
}

func TestLearningModuleResources(t *testing.T) {
	a := newAPITest(t)
	g, s := testutil.Catalog(t, context.Background(), a.db, a.owner)
	r := a.createResource("Magnets", g.ID, s.ID)

	rec := a.do(http.MethodPost, "/api/learningmodules", a.owner, map[string]interface{}{"title": "Forces", "gradeId": g.ID, "subjectId": s.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	mod := decode[services.LearningModuleView](t, rec)
	rec = a.do(http.MethodPost, "/api/learningmodules", a.owner, map[string]interface{}{"title": "Empty", "gradeId": g.ID, "subjectId": s.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	base := "/api/learningmodules/" + mod.ID.String() + "/resources"
	requireErrorCode(t, a.do(http.MethodPost, base, a.owner, map[string]interface{}{"resourceIds": []uuid.UUID{}}), http.StatusBadRequest, "invalid_request")
	requireErrorCode(t, a.do(http.MethodPost, base, a.other, map[string]interface{}{"resourceIds": []uuid.UUID{r.ID}}), http.StatusUnauthorized, "not_owner")

	rec = a.do(http.MethodPost, base, a.owner, map[string]interface{}{"resourceIds": []uuid.UUID{r.ID, r.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, decode[[]services.ResourceView](t, rec), 1)

	nonEmpty := decode[[]services.LearningModuleView](t, a.do(http.MethodGet, "/api/learningmodules?excludeEmpty=true", a.other, nil))
	require.Len(t, nonEmpty, 1)
	require.Equal(t, "Forces", nonEmpty[0].Title)
	require.Equal(t, 1, nonEmpty[0].ResourceCount)

	rec = a.do(http.MethodDelete, base+"/"+r.ID.String(), a.owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Empty(t, decode[[]services.ResourceView](t, a.do(http.MethodGet, base, a.other, nil)))
}

func TestTabConfigurationLookup(t *testing.T) {
	a := newAPITest(t)
	ctx := context.Background()
	g, s := testutil.Catalog(t, ctx, a.db, a.owner)
	m := testutil.SeedLearningModule(t, ctx, a.db, "Pinned", g.ID, s.ID, a.owner, 0)

	rec := a.do(http.MethodPost, "/api/tab-configuration", a.owner, map[string]interface{}{
		"teamId": "team", "channelId": "chan", "groupId": "group", "tabId": "tab", "learningModuleId": m.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[services.TabConfigurationView](t, a.do(http.MethodGet, "/api/tab-configuration?tabId=tab&groupId=group", a.other, nil))
	require.Equal(t, m.ID, got.LearningModuleID)
	require.Equal(t, "Pinned", got.LearningModule.Title)

	requireErrorCode(t, a.do(http.MethodGet, "/api/tab-configuration?tabId=tab", a.other, nil), http.StatusBadRequest, "invalid_query")
	requireErrorCode(t, a.do(http.MethodGet, "/api/tab-configuration?tabId=tab&groupId=nope", a.other, nil), http.StatusNotFound, "tab_configuration_not_found")
}

func TestUserSettingsAndLibrary(t *testing.T) {
	a := newAPITest(t)
	g, s := testutil.Catalog(t, context.Background(), a.db, a.owner)
	r := a.createResource("Saved", g.ID, s.ID)

	empty := decode[services.UserSettingsView](t, a.do(http.MethodGet, "/api/usersettings", a.other, nil))
	require.Equal(t, a.other, empty.UserID)
	require.NotNil(t, empty.ResourceGrades)

	rec := a.do(http.MethodPost, "/api/usersettings", a.other, map[string]interface{}{"resourceGrades": []uuid.UUID{g.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requireErrorCode(t, a.do(http.MethodPatch, "/api/usersettings/"+a.owner.String(), a.other, map[string]interface{}{}), http.StatusUnauthorized, "not_owner")
	rec = a.do(http.MethodPatch, "/api/usersettings/"+a.other.String(), a.other, map[string]interface{}{"resourceSubjects": []uuid.UUID{s.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, []uuid.UUID{s.ID}, decode[services.UserSettingsView](t, rec).ResourceSubjects)

	rec = a.do(http.MethodPost, "/api/me/resources/"+r.ID.String(), a.other, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requireErrorCode(t, a.do(http.MethodPost, "/api/me/resources/"+r.ID.String(), a.other, nil), http.StatusConflict, "already_saved")
	require.Len(t, decode[[]services.ResourceView](t, a.do(http.MethodGet, "/api/me/resources", a.other, nil)), 1)
	rec = a.do(http.MethodDelete, "/api/me/resources/"+r.ID.String(), a.other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	requireErrorCode(t, a.do(http.MethodDelete, "/api/me/resources/"+r.ID.String(), a.other, nil), http.StatusNotFound, "saved_resource_not_found")
}

func TestFileImageAndGroupEndpoints(t *testing.T) {
	a := newAPITest(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "worksheet.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/file/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(testUserHeader, a.owner.String())
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uploaded := decode[services.FileView](t, rec)
	require.Contains(t, uploaded.Key, "-worksheet.pdf")

	requireErrorCode(t, a.do(http.MethodPost, "/api/file/upload", a.owner, nil), http.StatusBadRequest, "missing_file")

	dl := decode[services.FileView](t, a.do(http.MethodGet, "/api/file/download?key="+uploaded.Key, a.owner, nil))
	require.Equal(t, "https://blobs.test/"+uploaded.Key+"?sig", dl.URI)
	requireErrorCode(t, a.do(http.MethodGet, "/api/file/download?key=../etc/passwd", a.owner, nil), http.StatusBadRequest, "invalid_key")

	links := decode[[]string](t, a.do(http.MethodGet, "/api/image?searchText=volcano", a.owner, nil))
	require.Equal(t, []string{"https://img.test/1"}, links)
	requireErrorCode(t, a.do(http.MethodGet, "/api/image", a.owner, nil), http.StatusBadRequest, "invalid_query")

	rec = a.do(http.MethodGet, "/api/groupmember/admin", a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", rec.Body.String())
	rec = a.do(http.MethodGet, "/api/groupmember/admin", a.other, nil)
	require.Equal(t, "false", rec.Body.String())
	requireErrorCode(t, a.do(http.MethodGet, "/api/groupmember/teacher", a.other, nil), http.StatusBadRequest, "invalid_group")
}
