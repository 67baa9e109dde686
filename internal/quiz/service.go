package quiz

import (
	"errors"
	"log"

	"quiz-live/internal/game"
	"quiz-live/internal/models"
	"quiz-live/pkg/cache"
)

// Service is the quiz store: save, list-by-owner, delete. The session engine
// never calls it directly; hosts materialize a quiz here and carry it into
// CREATE_GAME. Cache failures fall through to the database.
type Service struct {
	repo  *Repository
	cache *cache.RedisCache
}

func NewService(repo *Repository, cache *cache.RedisCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) SaveQuiz(ownerID uint, src game.Quiz) (*models.Quiz, error) {
	if src.Title == "" || len(src.Questions) == 0 {
		return nil, errors.New("quiz needs a title and at least one question")
	}
	if err := src.Validate(); err != nil {
		return nil, errors.New("quiz has malformed questions")
	}

	quiz := models.FromGame(ownerID, src)
	if err := s.repo.CreateQuiz(&quiz); err != nil {
		return nil, err
	}

	if err := s.cache.SetQuiz(&quiz); err != nil {
		log.Printf("quiz store: cache write failed: %v", err)
	}
	return &quiz, nil
}

func (s *Service) GetQuiz(ownerID uint, title string) (*models.Quiz, error) {
	if quiz, err := s.cache.GetQuiz(ownerID, title); err == nil {
		return quiz, nil
	}

	quiz, err := s.repo.GetQuizByTitle(ownerID, title)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetQuiz(quiz); err != nil {
		log.Printf("quiz store: cache write failed: %v", err)
	}
	return quiz, nil
}

func (s *Service) ListByOwner(ownerID uint) ([]models.QuizSummary, error) {
	quizzes, err := s.repo.GetQuizzesByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.QuizSummary, len(quizzes))
	for i, q := range quizzes {
		summaries[i] = q.ToSummary()
	}
	return summaries, nil
}

func (s *Service) DeleteQuiz(ownerID uint, title string) (bool, error) {
	deleted, err := s.repo.DeleteQuiz(ownerID, title)
	if err != nil {
		return false, err
	}
	if deleted {
		if err := s.cache.DeleteQuiz(ownerID, title); err != nil {
			log.Printf("quiz store: cache delete failed: %v", err)
		}
	}
	return deleted, nil
}
