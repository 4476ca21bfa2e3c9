package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewHandler(questionHandler *QuestionHandler, participantHandler *ParticipantHandler, gateway http.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	if gateway != nil {
		r.Handle("/ws", gateway)
	}

	r.Route("/teacher", func(r chi.Router) {
		r.Post("/create", questionHandler.CreateQuestion)
		r.Post("/abort", questionHandler.AbortRound)
		r.Get("/question", questionHandler.CurrentQuestion)
		r.Get("/results", questionHandler.Results)
		r.Get("/history", questionHandler.History)

		r.Get("/students", participantHandler.List)
		r.Post("/remove", participantHandler.Remove)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
