package quiz

import (
	"log"

	"gorm.io/gorm"

	"quiz-live/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateQuiz(quiz *models.Quiz) error {
	if err := r.db.Create(quiz).Error; err != nil {
		log.Printf("quiz store: create failed: %v", err)
		return err
	}
	return nil
}

func (r *Repository) GetQuizByTitle(ownerID uint, title string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Where("owner_id = ? AND title = ?", ownerID, title).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetQuizzesByOwner(ownerID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Where("owner_id = ?", ownerID).
		Preload("Questions").
		Order("created_at ASC").
		Find(&quizzes).Error
	if err != nil {
		log.Printf("quiz store: list for owner %d failed: %v", ownerID, err)
		return nil, err
	}
	return quizzes, nil
}

// DeleteQuiz removes an owner's quiz by title. Returns whether a row matched.
func (r *Repository) DeleteQuiz(ownerID uint, title string) (bool, error) {
	result := r.db.Where("owner_id = ? AND title = ?", ownerID, title).
		Delete(&models.Quiz{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
