package database

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/models"
)

// Seed loads the initial accounts and demo projects. It is idempotent:
// existing usernames and project names are left untouched.
func Seed(db *gorm.DB) error {
	seedUsers := []struct {
		Username string
		Password string
		Role     models.Role
	}{
		{"nkc", "password123", models.RoleAdmin},
		{"sarada", "password123", models.RoleAdmin},
		{"rahul", "password123", models.RoleUser},
	}

	users := make(map[string]*models.User, len(seedUsers))
	for _, su := range seedUsers {
		var user models.User
		err := db.Where("username = ?", su.Username).First(&user).Error
		switch {
		case err == nil:
			// Already present; keep as is.
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, herr := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
			if herr != nil {
				return fmt.Errorf("failed to hash seed password: %w", herr)
			}
			user = models.User{
				Username:     su.Username,
				PasswordHash: string(hash),
				Role:         su.Role,
			}
			if cerr := db.Create(&user).Error; cerr != nil {
				return fmt.Errorf("failed to seed user %s: %w", su.Username, cerr)
			}
		default:
			return fmt.Errorf("failed to look up user %s: %w", su.Username, err)
		}
		u := user
		users[su.Username] = &u
	}

	seedProjects := []struct {
		Name        string
		Description string
	}{
		{"My Portfolio", "Personal portfolio website"},
		{"EZ Cut Media", "Video editing agency"},
		{"Digital Concierge", "Lifestyle management app"},
	}

	for _, sp := range seedProjects {
		var project models.Project
		err := db.Where("name = ?", sp.Name).First(&project).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up project %s: %w", sp.Name, err)
		}

		project = models.Project{Name: sp.Name, Description: sp.Description}
		if err := db.Create(&project).Error; err != nil {
			return fmt.Errorf("failed to seed project %s: %w", sp.Name, err)
		}

		completedAt := time.Now()
		tasks := []models.Task{
			{Title: "Setup Repo", Status: models.TaskStatusCompleted, CompletedAt: &completedAt, Priority: 1, ProjectID: project.ID},
			{Title: "Design UI", Status: models.TaskStatusInProgress, Priority: 1, ProjectID: project.ID},
			{Title: "Deploy", Status: models.TaskStatusToStart, Priority: 1, ProjectID: project.ID},
		}
		for i := range tasks {
			if err := db.Create(&tasks[i]).Error; err != nil {
				return fmt.Errorf("failed to seed tasks for %s: %w", sp.Name, err)
			}
		}

		// Admins are members of every project; rahul gets exactly one.
		memberNames := []string{"nkc", "sarada"}
		if sp.Name == "EZ Cut Media" {
			memberNames = append(memberNames, "rahul")
		}
		for _, name := range memberNames {
			member := models.ProjectMember{
				ProjectID: project.ID,
				UserID:    users[name].ID,
			}
			if err := db.Create(&member).Error; err != nil {
				return fmt.Errorf("failed to seed membership for %s: %w", name, err)
			}
		}
	}

	return nil
}
