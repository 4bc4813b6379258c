package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"tiered-quiz-service/internal/app"
	"tiered-quiz-service/internal/domain"
)

// Handler exposes the scoring use cases over plain HTTP.
type Handler struct {
	service *app.ScoringService
}

func NewHandler(service *app.ScoringService) *Handler {
	return &Handler{service: service}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /leaderboard", h.Leaderboard)
	mux.HandleFunc("GET /correct", h.Correct)
	mux.HandleFunc("POST /user/add", h.AddUser)
	mux.HandleFunc("POST /user/delete/{user_id}", h.DeleteUser)
	mux.HandleFunc("GET /user/points/{user_id}", h.Points)
	mux.HandleFunc("GET /{difficulty}", h.Questions)
}

func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions(r.PathValue("difficulty"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) Correct(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	questionIndex, err := strconv.Atoi(q.Get("question_index"))
	if err != nil {
		http.Error(w, "invalid question_index", http.StatusBadRequest)
		return
	}
	answerIndex, err := strconv.Atoi(q.Get("answer_index"))
	if err != nil {
		http.Error(w, "invalid answer_index", http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), domain.AnswerSubmission{
		Difficulty:    q.Get("difficulty"),
		QuestionIndex: questionIndex,
		AnswerIndex:   answerIndex,
		UserID:        q.Get("user_id"),
	})
	if err != nil {
		if isRejection(err) {
			writeError(w, err)
			return
		}
		// the verdict stands even when the points could not be applied
		log.Printf("answer scored without ledger update: %v", err)
	}
	writeJSON(w, http.StatusOK, result.Correct)
}

type addUserRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "invalid user payload", http.StatusBadRequest)
		return
	}
	if err := h.service.RegisterUser(r.Context(), req.UserID, req.UserName); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), r.PathValue("user_id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.GetPoints(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetLeaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		log.Printf("request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}

// isRejection reports whether a submission was refused before evaluation.
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidDifficulty) || errors.Is(err, domain.ErrIndexOutOfRange)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDifficulty):
		return http.StatusNotAcceptable
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
