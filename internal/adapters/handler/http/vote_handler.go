package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	OptionIndex *int `json:"option_index"`
}

func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing user context")
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil || req.OptionIndex == nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "option_index is required")
		return
	}

	vote, err := h.service.Vote(r.Context(), ports.VoteInput{
		PollID:      chi.URLParam(r, "id"),
		UserID:      userID.String(),
		OptionIndex: *req.OptionIndex,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

func (h *VoteHandler) SkipPoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing user context")
		return
	}

	vote, err := h.service.Skip(r.Context(), ports.SkipInput{
		PollID: chi.URLParam(r, "id"),
		UserID: userID.String(),
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "missing user context")
		return
	}

	vote, err := h.service.GetUserVote(r.Context(), chi.URLParam(r, "id"), userID.String())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vote)
}
