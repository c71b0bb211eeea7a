package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/asharma/portfolio-backend/auth"
	"github.com/asharma/portfolio-backend/database"
	"github.com/asharma/portfolio-backend/errs"
	"github.com/asharma/portfolio-backend/models"
	"github.com/asharma/portfolio-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// maxProjectFormSize bounds the multipart payload (text fields + image binary).
const maxProjectFormSize = 10 << 20

type projectHandler struct {
	responder     Responder
	logger        zerolog.Logger
	projects      database.ProjectStore
	images        services.ImageHost
	sessionSecret []byte
}

func newProjectHandler(projects database.ProjectStore, images services.ImageHost, sessionSecret []byte) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		projects:      projects,
		images:        images,
		sessionSecret: sessionSecret,
	}
}

// requireAdmin re-checks authorization inside the handler. The edge guard
// already ran for routes mounted under it; this second check covers any
// other mounting and must deny before a single store access.
func (h projectHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !auth.IsAuthorizedAdmin(resolveSession(r, h.sessionSecret)) {
		h.responder.WriteError(w, errs.NewUnauthorizedError("admin access required"))
		return false
	}
	return true
}

// getAllProjects retrieves all projects, public, newest first.
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.FindAll(0)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "projects", err))
			return
		}

		if projects == nil {
			projects = []*models.Project{}
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"projects": projects,
		})
	}
}

// getProject retrieves a single project by ID, public.
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.projects.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"project": project,
		})
	}
}

// createProject creates a project from an admin multipart form submission,
// uploading the image binary to the image host when one is attached.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		project, imageData, imageType, apiErr := parseProjectForm(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if apiErr := validateProject(project); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if imageData != nil {
			imageURL, err := h.images.Upload(r.Context(), imageData, imageType)
			if err != nil {
				h.logger.Error().Err(err).Msg("Failed to upload project image")
				h.responder.WriteError(w, errs.NewInternalError("failed to upload image"))
				return
			}
			project.Image = imageURL
		}

		if err := h.projects.Add(project); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]interface{}{
			"success":   true,
			"projectId": project.ID,
			"message":   "Project created successfully",
		})
	}
}

// updateProject replaces every field of an existing project (the form
// resends the full document). A new image binary replaces the hosted image;
// the previous one is removed from the host.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.projects.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		project, imageData, imageType, apiErr := parseProjectForm(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		project.ID = projectID
		project.CreatedAt = existing.CreatedAt
		project.Image = existing.Image

		if imageData != nil {
			imageURL, err := h.images.Upload(r.Context(), imageData, imageType)
			if err != nil {
				h.logger.Error().Err(err).Msg("Failed to upload replacement image")
				h.responder.WriteError(w, errs.NewInternalError("failed to upload image"))
				return
			}
			project.Image = imageURL

			if existing.Image != "" && h.images.Owns(existing.Image) {
				if err := h.images.Delete(r.Context(), existing.Image); err != nil {
					h.logger.Error().Err(err).Str("url", existing.Image).Msg("Failed to delete previous image")
				}
			}
		}

		if err := h.projects.Replace(project); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
			"message": "Project updated successfully",
		})
	}
}

// deleteProject removes a project and its hosted image.
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.projects.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		if project.Image != "" && h.images.Owns(project.Image) {
			if err := h.images.Delete(r.Context(), project.Image); err != nil {
				h.logger.Error().Err(err).Str("url", project.Image).Msg("Failed to delete hosted image")
			}
		}

		if _, err := h.projects.Delete(projectID); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
			"message": "Project deleted successfully",
		})
	}
}

// parseProjectID validates the path parameter syntactically. A malformed id
// is a validation failure, distinct from the not-found result a well-formed
// unknown id produces.
func parseProjectID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewValidationError("projectID", "invalid project ID format")
	}
	return projectID, nil
}

// parseProjectForm decodes the multipart payload: plain text fields, three
// JSON-encoded list/object fields, and an optional image binary.
func parseProjectForm(r *http.Request) (*models.Project, []byte, string, *errs.ApiErr) {
	if err := r.ParseMultipartForm(maxProjectFormSize); err != nil {
		return nil, nil, "", errs.NewBadRequestError("malformed multipart form")
	}

	project := &models.Project{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		LongDescription: r.FormValue("longDescription"),
		Experience:      r.FormValue("experience"),
		DemoURL:         r.FormValue("demoUrl"),
		SourceURL:       r.FormValue("sourceUrl"),
		ShowDemo:        r.FormValue("showDemo") == "true",
		ShowSource:      r.FormValue("showSource") == "true",
	}

	if raw := r.FormValue("tags"); raw != "" {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, nil, "", errs.NewValidationError("tags", "tags must be a JSON array of strings")
		}
		project.Tags = datatypes.JSONSlice[string](tags)
	}
	if raw := r.FormValue("techStack"); raw != "" {
		var techStack []string
		if err := json.Unmarshal([]byte(raw), &techStack); err != nil {
			return nil, nil, "", errs.NewValidationError("techStack", "techStack must be a JSON array of strings")
		}
		project.TechStack = datatypes.JSONSlice[string](techStack)
	}
	if raw := r.FormValue("seo"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &project.SEO); err != nil {
			return nil, nil, "", errs.NewValidationError("seo", "seo must be a JSON object")
		}
	}
	project.Normalize()

	file, header, err := r.FormFile("image")
	if err != nil {
		// No image attached; the field is optional.
		return project, nil, "", nil
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, "", errs.NewBadRequestError("failed to read image upload")
	}
	if len(imageData) == 0 {
		return project, nil, "", nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(imageData)
	}
	return project, imageData, contentType, nil
}

func validateProject(p *models.Project) *errs.ApiErr {
	if p.Title == "" {
		return errs.NewValidationError("title", "title is required")
	}
	if p.Description == "" {
		return errs.NewValidationError("description", "description is required")
	}
	if len(p.Tags) == 0 {
		return errs.NewValidationError("tags", "at least one tag is required")
	}
	return nil
}
