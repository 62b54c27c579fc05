// internal/fakeapi/handler.go
package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"quiz-data-client/internal/models"
	"quiz-data-client/pkg/logger"
)

type Handler struct {
	store    *Store
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(store *Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		store:    store,
		validate: validator.New(),
		log:      log,
	}
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListQuizzes())
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.store.GetQuiz(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var quiz models.QuizData
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := h.invalid(quiz); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	created, err := h.store.CreateQuiz(quiz)
	if errors.Is(err, ErrDuplicate) {
		http.Error(w, "Quiz with id "+quiz.ID+" already exists", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.log.Entry().WithField("quiz_id", created.ID).Info("created quiz")
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ReplaceQuiz(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var quiz models.QuizData
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := h.invalid(quiz); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	saved, err := h.store.ReplaceQuiz(id, quiz)
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteQuiz(mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) CreateAttempt(w http.ResponseWriter, r *http.Request) {
	var draft models.AttemptDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if draft.QuizID == "" {
		http.Error(w, "quizId is required", http.StatusBadRequest)
		return
	}

	attempt := h.store.CreateAttempt(draft)
	h.log.Entry().WithField("attempt_id", attempt.ID).WithField("quiz_id", attempt.QuizID).Info("created attempt")
	writeJSON(w, http.StatusCreated, attempt)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListAttempts(r.URL.Query().Get("quizId")))
}

func (h *Handler) DeleteAttempt(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAttempt(mux.Vars(r)["id"]); err != nil {
		http.Error(w, "Attempt not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// invalid returns a readable list of failed rules, or "" when quiz is valid.
func (h *Handler) invalid(quiz models.QuizData) string {
	err := h.validate.Struct(quiz)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
