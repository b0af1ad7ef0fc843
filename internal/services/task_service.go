package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/models"
	"github.com/nkchq/projectboard/internal/policy"
	"github.com/nkchq/projectboard/internal/repository"
)

// TaskService implements the task lifecycle: creation, edits, status moves
// with completion bookkeeping, and the tiered deletion semantics. All
// policy checks run before any mutation touches storage.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	log         *logger.Logger

	// now is swappable in tests asserting completion timestamps.
	now func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, log *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		log:         log,
		now:         time.Now,
	}
}

// ListTasks returns a project's tasks, newest first, soft-deleted rows
// included. The actor needs project visibility.
func (s *TaskService) ListTasks(actor policy.Actor, projectID uint64) ([]models.Task, error) {
	if err := s.ensureProjectVisible(actor, projectID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByProject(projectID)
}

// GetTask returns a single task the actor can view.
func (s *TaskService) GetTask(actor policy.Actor, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProjectVisible(actor, task.ProjectID); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
	ProjectID   uint64
}

// CreateTask creates a task in the TO_START column. Priority defaults to 1
// when unspecified; completion and deletion state start clear.
func (s *TaskService) CreateTask(actor policy.Actor, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := s.ensureProjectVisible(actor, input.ProjectID); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == 0 {
		priority = models.MinTaskPriority
	}
	if priority < models.MinTaskPriority || priority > models.MaxTaskPriority {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      models.TaskStatusToStart,
		Priority:    priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Infow("task created", "task_id", task.ID, "project_id", task.ProjectID, "by", actor.Username)
	return task, nil
}

// UpdateTaskInput represents input for editing a task. Nil fields are left
// untouched; ClearDueDate removes the date.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *int
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateTask edits title, description, due date, or priority. Edits are
// permitted at any status and never touch the completion timestamp or the
// soft-deletion flag.
func (s *TaskService) UpdateTask(actor policy.Actor, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.authorizeMutation(actor, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if *input.Priority < models.MinTaskPriority || *input.Priority > models.MaxTaskPriority {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// MoveTask transitions a task to the given column. Any column is reachable
// from any other. Moving into COMPLETED stamps the completion time; moving
// out clears it; a same-status move changes nothing.
func (s *TaskService) MoveTask(actor policy.Actor, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	if _, ok := models.ParseTaskStatus(string(status)); !ok {
		return nil, ErrInvalidStatus
	}

	task, err := s.authorizeMutation(actor, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == status {
		return task, nil
	}

	task.Status = status
	if status == models.TaskStatusCompleted {
		completedAt := s.now()
		task.CompletedAt = &completedAt
	} else {
		task.CompletedAt = nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	s.log.Debugw("task moved", "task_id", task.ID, "status", task.Status, "by", actor.Username)
	return task, nil
}

// DeleteTask removes a task according to the actor's tier: the super-admin
// erases the row, everyone else sets the soft-deletion flag. A task already
// soft-deleted can only be erased, and only by the super-admin.
func (s *TaskService) DeleteTask(actor policy.Actor, taskID uint64) error {
	task, err := s.authorizeMutation(actor, taskID)
	if err != nil {
		return err
	}

	switch policy.DeleteModeFor(actor.Tier) {
	case policy.DeleteModeHard:
		if err := s.taskRepo.HardDelete(task.ID); err != nil {
			return fmt.Errorf("failed to erase task: %w", err)
		}
		s.log.Infow("task erased", "task_id", task.ID, "by", actor.Username)
	default:
		if err := s.taskRepo.SoftDelete(task.ID); err != nil {
			return fmt.Errorf("failed to soft-delete task: %w", err)
		}
		s.log.Infow("task soft-deleted", "task_id", task.ID, "by", actor.Username)
	}
	return nil
}

// authorizeMutation loads a task and checks that the actor may mutate it:
// project visibility plus the soft-deletion inertness rule.
func (s *TaskService) authorizeMutation(actor policy.Actor, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(task.ProjectID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !policy.CanViewProject(actor, isMember) {
		return nil, ErrNotFound
	}
	if !policy.CanMutateTask(actor, isMember, task.IsSoftDeleted) {
		return nil, ErrTaskSoftDeleted
	}
	return task, nil
}

func (s *TaskService) ensureProjectVisible(actor policy.Actor, projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	isMember, err := s.projectRepo.IsMember(projectID, actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !policy.CanViewProject(actor, isMember) {
		return ErrNotFound
	}
	return nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
