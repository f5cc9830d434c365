package database

import (
	"fmt"
	"log"

	"engilearn/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const seedInstructorEmail = "instructor@engilearn.dev"

// Seed loads a small demo catalog. It does nothing when the demo instructor
// already exists, so it is safe to run on every start.
func (c *Connection) Seed(logger *log.Logger) error {
	var count int64
	if err := c.DB.Model(&models.User{}).Where("email = ?", seedInstructorEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("instructor123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		instructor := models.User{
			Email:         seedInstructorEmail,
			Username:      "instructor",
			PasswordHash:  string(hash),
			EmailVerified: true,
		}
		if err := tx.Create(&instructor).Error; err != nil {
			return err
		}

		courses := []models.Course{
			{
				Title:          "English for Engineers",
				Description:    "Technical vocabulary, documentation and meeting English for engineering teams.",
				Difficulty:     "beginner",
				Category:       "language",
				EstimatedHours: 6,
				ModuleCount:    3,
				InstructorID:   instructor.ID,
				IsPublished:    true,
				Lessons: []models.Lesson{
					seedLesson(1, "Reading a datasheet", "reading", 15, 50),
					seedLesson(2, "Describing a system diagram", "video", 20, 50),
					seedLesson(3, "Vocabulary check", "quiz", 10, 100),
				},
			},
			{
				Title:          "Writing Design Documents",
				Description:    "Structure, tone and review etiquette for technical design documents.",
				Difficulty:     "intermediate",
				Category:       "writing",
				EstimatedHours: 4,
				ModuleCount:    2,
				InstructorID:   instructor.ID,
				IsPublished:    true,
				Lessons: []models.Lesson{
					seedLesson(1, "Problem statements", "reading", 20, 50),
					seedLesson(2, "Draft review lab", "lab", 45, 150),
				},
			},
		}
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}

		logger.Printf("Seeded %d courses for %s", len(courses), instructor.Email)
		return nil
	})
}

func seedLesson(order int, title, lessonType string, duration, xp int) models.Lesson {
	return models.Lesson{
		OrderNumber: order,
		Title:       title,
		Duration:    duration,
		LessonType:  lessonType,
		XPReward:    xp,
		Content:     datatypes.JSON(fmt.Sprintf(`{"sections":[{"heading":%q}]}`, title)),
	}
}
