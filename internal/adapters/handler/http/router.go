package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, jwtSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(Authenticate(jwtSecret))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.GetFeed)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/stats", pollHandler.GetStats)

			r.Group(func(r chi.Router) {
				r.Use(RequireUser)
				r.Post("/", pollHandler.CreatePoll)
				r.Post("/{id}/votes", voteHandler.VoteOnPoll)
				r.Post("/{id}/skip", voteHandler.SkipPoll)
				r.Get("/{id}/my-vote", voteHandler.GetMyVote)
			})
		})
	})

	return r
}
