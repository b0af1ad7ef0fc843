package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/models"
	"github.com/nkchq/projectboard/internal/policy"
	"github.com/nkchq/projectboard/internal/repository"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService

	// fixed clock for completion timestamps
	clock time.Time
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.service = NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
		logger.NewNop(),
	)
	suite.clock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.clock }
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTestUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Name:         username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskServiceTestSuite) createTestProject(name string) *models.Project {
	project := &models.Project{Name: name}
	suite.db.Create(project)
	return project
}

func (suite *TaskServiceTestSuite) addMember(projectID, userID uint64) {
	suite.db.Create(&models.ProjectMember{ProjectID: projectID, UserID: userID})
}

func (suite *TaskServiceTestSuite) createTestTask(title string, projectID uint64) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusToStart,
		Priority:  models.MinTaskPriority,
		ProjectID: projectID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskServiceTestSuite) actorFor(user *models.User) policy.Actor {
	return policy.Actor{
		UserID:   user.ID,
		Username: user.Username,
		Tier:     policy.TierFor(user.Username, user.Role),
	}
}

// memberActor returns a regular user who is a member of the given project.
func (suite *TaskServiceTestSuite) memberActor(projectID uint64) policy.Actor {
	user := suite.createTestUser("member", models.RoleUser)
	suite.addMember(projectID, user.ID)
	return suite.actorFor(user)
}

func (suite *TaskServiceTestSuite) superAdminActor() policy.Actor {
	user := suite.createTestUser("nkc", models.RoleAdmin)
	return suite.actorFor(user)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)

	task, err := suite.service.CreateTask(actor, CreateTaskInput{
		Title:     "  Design UI  ",
		ProjectID: project.ID,
	})

	suite.Require().NoError(err)
	suite.Equal("Design UI", task.Title)
	suite.Equal(models.TaskStatusToStart, task.Status)
	suite.Equal(1, task.Priority)
	suite.Nil(task.CompletedAt)
	suite.False(task.IsSoftDeleted)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)

	_, err := suite.service.CreateTask(actor, CreateTaskInput{Title: "   ", ProjectID: project.ID})
	suite.ErrorIs(err, ErrTitleRequired)

	_, err = suite.service.CreateTask(actor, CreateTaskInput{Title: "T", Priority: 4, ProjectID: project.ID})
	suite.ErrorIs(err, ErrInvalidPriority)
}

func (suite *TaskServiceTestSuite) TestCreateTask_HiddenProjectLooksAbsent() {
	project := suite.createTestProject("Portfolio")
	outsider := suite.actorFor(suite.createTestUser("outsider", models.RoleUser))

	_, err := suite.service.CreateTask(outsider, CreateTaskInput{Title: "T", ProjectID: project.ID})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestMoveTask_CompletionStampedAndCleared() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	moved, err := suite.service.MoveTask(actor, task.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)
	suite.Require().NotNil(moved.CompletedAt)
	suite.True(moved.CompletedAt.Equal(suite.clock))

	// Leaving the completed column clears the timestamp again.
	moved, err = suite.service.MoveTask(actor, task.ID, models.TaskStatusInProgress)
	suite.Require().NoError(err)
	suite.Nil(moved.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestMoveTask_SameStatusIsNoOp() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	moved, err := suite.service.MoveTask(actor, task.ID, models.TaskStatusToStart)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusToStart, moved.Status)
	suite.Nil(moved.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestMoveTask_AnyTransitionAllowed() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	// Straight from TO_START to COMPLETED and back again.
	_, err := suite.service.MoveTask(actor, task.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)
	moved, err := suite.service.MoveTask(actor, task.ID, models.TaskStatusToStart)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusToStart, moved.Status)
	suite.Nil(moved.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestMoveTask_InvalidStatus() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	_, err := suite.service.MoveTask(actor, task.ID, models.TaskStatus("DONE"))
	suite.ErrorIs(err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NeverTouchesCompletion() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	_, err := suite.service.MoveTask(actor, task.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)

	title := "Deploy v2"
	priority := 3
	updated, err := suite.service.UpdateTask(actor, task.ID, UpdateTaskInput{
		Title:    &title,
		Priority: &priority,
	})
	suite.Require().NoError(err)
	suite.Equal("Deploy v2", updated.Title)
	suite.Equal(3, updated.Priority)
	suite.Equal(models.TaskStatusCompleted, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)
	suite.True(updated.CompletedAt.Equal(suite.clock))
}

func (suite *TaskServiceTestSuite) TestUpdateTask_DueDate() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	updated, err := suite.service.UpdateTask(actor, task.ID, UpdateTaskInput{DueDate: &due})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.DueDate)

	updated, err = suite.service.UpdateTask(actor, task.ID, UpdateTaskInput{ClearDueDate: true})
	suite.Require().NoError(err)
	suite.Nil(updated.DueDate)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_UserSoftDeletes() {
	project := suite.createTestProject("Portfolio")
	actor := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)

	suite.Require().NoError(suite.service.DeleteTask(actor, task.ID))

	// The row survives and stays renderable in listings.
	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	suite.True(stored.IsSoftDeleted)

	tasks, err := suite.service.ListTasks(actor, project.ID)
	suite.Require().NoError(err)
	suite.Len(tasks, 1)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_SuperAdminErases() {
	project := suite.createTestProject("Portfolio")
	actor := suite.superAdminActor()
	task := suite.createTestTask("Deploy", project.ID)

	suite.Require().NoError(suite.service.DeleteTask(actor, task.ID))

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskServiceTestSuite) TestSoftDeletedTaskIsInert() {
	project := suite.createTestProject("Portfolio")
	member := suite.memberActor(project.ID)
	task := suite.createTestTask("Deploy", project.ID)
	suite.Require().NoError(suite.service.DeleteTask(member, task.ID))

	_, err := suite.service.MoveTask(member, task.ID, models.TaskStatusCompleted)
	suite.ErrorIs(err, ErrTaskSoftDeleted)

	title := "Renamed"
	_, err = suite.service.UpdateTask(member, task.ID, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrTaskSoftDeleted)

	err = suite.service.DeleteTask(member, task.ID)
	suite.ErrorIs(err, ErrTaskSoftDeleted)

	// Only the super-admin can still act on it, and acting means erasing.
	super := suite.superAdminActor()
	suite.Require().NoError(suite.service.DeleteTask(super, task.ID))
	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskServiceTestSuite) TestGetTask_NonMemberSeesNotFound() {
	project := suite.createTestProject("Portfolio")
	task := suite.createTestTask("Deploy", project.ID)
	outsider := suite.actorFor(suite.createTestUser("outsider", models.RoleUser))

	_, err := suite.service.GetTask(outsider, task.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestGetTask_AdminSeesWithoutMembership() {
	project := suite.createTestProject("Portfolio")
	task := suite.createTestTask("Deploy", project.ID)
	admin := suite.actorFor(suite.createTestUser("sarada", models.RoleAdmin))

	got, err := suite.service.GetTask(admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, got.ID)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
