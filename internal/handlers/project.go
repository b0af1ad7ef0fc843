package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkchq/projectboard/internal/dto"
	apierrors "github.com/nkchq/projectboard/internal/errors"
	"github.com/nkchq/projectboard/internal/middleware"
	"github.com/nkchq/projectboard/internal/services"
)

// ProjectHandler exposes project CRUD and membership management.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns the actor's visible projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListVisible(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	counts, err := h.projectService.TaskCounts(projects)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = dto.ToProjectDTO(p)
		n := counts[p.ID]
		out[i].TaskCount = &n
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

// GetProject returns one project; non-members get 404.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project; admins are attached automatically.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(actor, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(actor, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project with its tasks and memberships.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(actor, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// ListMembers returns a project's members, admins included via sync.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberDTOs(members)})
}

// AssignMember adds a user to a project.
func (h *ProjectHandler) AssignMember(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	type AssignMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AssignMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.projectService.AssignMember(actor, id, req.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member added successfully"})
}

// UnassignMember removes a user from a project.
func (h *ProjectHandler) UnassignMember(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.ParseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectService.UnassignMember(actor, id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
