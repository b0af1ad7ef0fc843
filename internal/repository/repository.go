package repository

import (
	"github.com/nkchq/projectboard/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users, newest first
	List() ([]models.User, error)

	// ListByRole returns all users with the given role
	ListByRole(role models.Role) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user and their membership rows
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// List returns all projects, newest first
	List() ([]models.Project, error)

	// ListByMember returns the projects the user is an explicit member of,
	// newest first
	ListByMember(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project, its tasks, and its membership rows
	Delete(id uint64) error

	// AddMember inserts a membership row; existing rows are left untouched
	AddMember(projectID, userID uint64) error

	// RemoveMember deletes a membership row
	RemoveMember(projectID, userID uint64) error

	// IsMember reports whether a membership row exists
	IsMember(projectID, userID uint64) (bool, error)

	// ListMembers lists the members of a project with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByProject returns a project's tasks, newest first, including
	// soft-deleted rows
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// SoftDelete marks a task inert, retaining the row
	SoftDelete(id uint64) error

	// HardDelete erases a task row
	HardDelete(id uint64) error

	// CountByProject counts a project's tasks, soft-deleted included
	CountByProject(projectID uint64) (int64, error)
}
