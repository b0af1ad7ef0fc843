package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/models"
	"github.com/nkchq/projectboard/internal/policy"
	"github.com/nkchq/projectboard/internal/repository"
)

// ProjectService handles project CRUD, visibility, and membership. Project
// management is super-admin only; visibility follows the actor's tier.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
	log         *logger.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository, log *logger.Logger) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, userRepo: userRepo, taskRepo: taskRepo, log: log}
}

// ListVisible returns the projects the actor can see: all of them for admin
// tiers, explicit memberships only for plain users.
func (s *ProjectService) ListVisible(actor policy.Actor) ([]models.Project, error) {
	if actor.Tier >= policy.TierAdmin {
		return s.projectRepo.List()
	}
	return s.projectRepo.ListByMember(actor.UserID)
}

// TaskCounts returns the task total for each of the given projects,
// soft-deleted rows included, for display next to the project name.
func (s *ProjectService) TaskCounts(projects []models.Project) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(projects))
	for _, p := range projects {
		n, err := s.taskRepo.CountByProject(p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
		counts[p.ID] = n
	}
	return counts, nil
}

// GetProject returns a project the actor can view. Non-members get
// ErrNotFound rather than a forbidden result so project existence is not
// leaked.
func (s *ProjectService) GetProject(actor policy.Actor, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	isMember, err := s.projectRepo.IsMember(id, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !policy.CanViewProject(actor, isMember) {
		return nil, ErrNotFound
	}

	return project, nil
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	ImageURL    string
}

// CreateProject creates a project and attaches every admin-role user as a
// member.
func (s *ProjectService) CreateProject(actor policy.Actor, input CreateProjectInput) (*models.Project, error) {
	if !policy.CanManageProjects(actor) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := s.syncAdminMembers(project.ID); err != nil {
		return nil, err
	}

	s.log.Infow("project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

// UpdateProjectInput represents input for updating a project. Nil fields
// are left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	ImageURL    *string
}

// UpdateProject updates a project.
func (s *ProjectService) UpdateProject(actor policy.Actor, id uint64, input UpdateProjectInput) (*models.Project, error) {
	if !policy.CanManageProjects(actor) {
		return nil, ErrForbidden
	}

	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ImageURL != nil {
		project.ImageURL = *input.ImageURL
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project together with its tasks and memberships.
func (s *ProjectService) DeleteProject(actor policy.Actor, id uint64) error {
	if !policy.CanManageProjects(actor) {
		return ErrForbidden
	}

	if _, err := s.projectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Infow("project deleted", "project_id", id, "by", actor.Username)
	return nil
}

// ListMembers returns the members of a project the actor can view. Admin
// memberships are synced first, so every admin shows up without explicit
// assignment.
func (s *ProjectService) ListMembers(actor policy.Actor, projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.GetProject(actor, projectID); err != nil {
		return nil, err
	}

	if err := s.syncAdminMembers(projectID); err != nil {
		return nil, err
	}

	return s.projectRepo.ListMembers(projectID)
}

// AssignMember adds a user to a project.
func (s *ProjectService) AssignMember(actor policy.Actor, projectID, userID uint64) error {
	if !policy.CanAssignMembers(actor) {
		return ErrForbidden
	}

	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	return s.projectRepo.AddMember(projectID, userID)
}

// UnassignMember removes a user from a project. An admin removed this way
// reappears on the next sync; that mirrors the implicit-membership rule.
func (s *ProjectService) UnassignMember(actor policy.Actor, projectID, userID uint64) error {
	if !policy.CanAssignMembers(actor) {
		return ErrForbidden
	}
	return s.projectRepo.RemoveMember(projectID, userID)
}

// syncAdminMembers ensures a membership row exists for every admin-role
// user.
func (s *ProjectService) syncAdminMembers(projectID uint64) error {
	admins, err := s.userRepo.ListByRole(models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}
	for _, admin := range admins {
		if err := s.projectRepo.AddMember(projectID, admin.ID); err != nil {
			return fmt.Errorf("failed to sync admin membership: %w", err)
		}
	}
	return nil
}
