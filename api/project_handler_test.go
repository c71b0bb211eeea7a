package api

import (
	"net/http"
	"testing"

	"github.com/asharma/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProjectFields() map[string]string {
	return map[string]string{
		"title":       "Portfolio Site",
		"description": "A personal portfolio website",
		"tags":        `["go","web"]`,
		"techStack":   `["chi","gorm"]`,
		"seo":         `{"title":"Portfolio","description":"SEO blurb","keywords":["portfolio"]}`,
		"demoUrl":     "https://demo.example.com",
		"showDemo":    "true",
	}
}

func createProject(t *testing.T, env *testEnv, fields map[string]string, image []byte) string {
	t.Helper()
	body, contentType := projectForm(t, fields, image)
	rec := doForm(t, env.router, http.MethodPost, "/api/projects", body, contentType, adminCookie(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Success   bool   `json:"success"`
		ProjectID string `json:"projectId"`
	}
	decodeBody(t, rec, &created)
	require.True(t, created.Success)
	require.NotEmpty(t, created.ProjectID)
	return created.ProjectID
}

func TestProjectListingIsPublic(t *testing.T) {
	env := newTestEnv(t)
	createProject(t, env, validProjectFields(), nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Projects []models.Project `json:"projects"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Projects, 1)
	assert.Equal(t, "Portfolio Site", body.Projects[0].Title)
	assert.Equal(t, []string{"go", "web"}, []string(body.Projects[0].Tags))
}

func TestGetProjectByID(t *testing.T) {
	env := newTestEnv(t)
	projectID := createProject(t, env, validProjectFields(), nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Project models.Project `json:"project"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, projectID, body.Project.ID.String())
	assert.Equal(t, "Portfolio", body.Project.SEO.Title)

	rec = doJSON(t, env.router, http.MethodGet, "/api/projects/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/api/projects/08f7b0ce-56a5-4f3a-9f64-3d0a50cf23be", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProjectRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := projectForm(t, validProjectFields(), nil)
	rec := doForm(t, env.router, http.MethodPost, "/api/projects", body, contentType)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	projects, err := env.db.ProjectRepo().FindAll(0)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestCreateProjectValidatesRequiredFields(t *testing.T) {
	env := newTestEnv(t)

	fields := validProjectFields()
	delete(fields, "tags")
	body, contentType := projectForm(t, fields, nil)
	rec := doForm(t, env.router, http.MethodPost, "/api/projects", body, contentType, adminCookie(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	fields = validProjectFields()
	fields["title"] = ""
	body, contentType = projectForm(t, fields, nil)
	rec = doForm(t, env.router, http.MethodPost, "/api/projects", body, contentType, adminCookie(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProjectUploadsImage(t *testing.T) {
	env := newTestEnv(t)
	projectID := createProject(t, env, validProjectFields(), []byte("png-bytes"))
	assert.Equal(t, 1, env.images.uploads)

	var body struct {
		Project models.Project `json:"project"`
	}
	rec := doJSON(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, stubImageBase+"img-1.png", body.Project.Image)
}

func TestUpdateProjectReplacesImageAndRemovesOld(t *testing.T) {
	env := newTestEnv(t)
	projectID := createProject(t, env, validProjectFields(), []byte("first"))

	fields := validProjectFields()
	fields["title"] = "Portfolio Site v2"
	body, contentType := projectForm(t, fields, []byte("second"))
	rec := doForm(t, env.router, http.MethodPut, "/api/projects/"+projectID, body, contentType, adminCookie(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the first hosted image is removed once the replacement is up
	assert.Equal(t, 2, env.images.uploads)
	assert.Equal(t, []string{stubImageBase + "img-1.png"}, env.images.deleted)

	var got struct {
		Project models.Project `json:"project"`
	}
	rec = doJSON(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &got)
	assert.Equal(t, "Portfolio Site v2", got.Project.Title)
	assert.Equal(t, stubImageBase+"img-2.png", got.Project.Image)
}

func TestUpdateProjectKeepsImageWhenNoneUploaded(t *testing.T) {
	env := newTestEnv(t)
	projectID := createProject(t, env, validProjectFields(), []byte("first"))

	body, contentType := projectForm(t, validProjectFields(), nil)
	rec := doForm(t, env.router, http.MethodPut, "/api/projects/"+projectID, body, contentType, adminCookie(t))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, env.images.uploads)
	assert.Empty(t, env.images.deleted)

	var got struct {
		Project models.Project `json:"project"`
	}
	rec = doJSON(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &got)
	assert.Equal(t, stubImageBase+"img-1.png", got.Project.Image)
}

func TestUpdateUnknownProjectIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := projectForm(t, validProjectFields(), nil)
	rec := doForm(t, env.router, http.MethodPut, "/api/projects/08f7b0ce-56a5-4f3a-9f64-3d0a50cf23be",
		body, contentType, adminCookie(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProjectRemovesHostedImage(t *testing.T) {
	env := newTestEnv(t)
	projectID := createProject(t, env, validProjectFields(), []byte("first"))

	rec := doJSON(t, env.router, http.MethodDelete, "/api/projects/"+projectID, nil, adminCookie(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{stubImageBase + "img-1.png"}, env.images.deleted)

	rec = doJSON(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.router, http.MethodDelete, "/api/projects/"+projectID, nil, adminCookie(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
