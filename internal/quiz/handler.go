package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"quiz-live/internal/auth"
	"quiz-live/internal/game"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SaveQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var src game.Quiz
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quiz, err := h.service.SaveQuiz(ownerID, src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(quiz)
}

func (h *Handler) GetMyQuizzes(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summaries, err := h.service.ListByOwner(ownerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(summaries)
}

// GetQuiz returns the owner's quiz in the materialized shape a host feeds
// into CREATE_GAME.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	title := mux.Vars(r)["title"]

	quiz, err := h.service.GetQuiz(ownerID, title)
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(quiz.ToGame())
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	title := mux.Vars(r)["title"]

	deleted, err := h.service.DeleteQuiz(ownerID, title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
