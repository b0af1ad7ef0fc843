package repository

import (
	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject returns a project's tasks, newest first. Soft-deleted rows
// are included; the board renders them as inert.
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// SoftDelete marks a task inert, retaining the row
func (r *GormTaskRepository) SoftDelete(id uint64) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("is_soft_deleted", true).Error
}

// HardDelete erases a task row
func (r *GormTaskRepository) HardDelete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountByProject counts a project's tasks, soft-deleted included
func (r *GormTaskRepository) CountByProject(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
