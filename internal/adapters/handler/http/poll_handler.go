package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type PollHandler struct {
	polls ports.PollService
	feed  ports.FeedService
	stats ports.StatsService

	// pageSize converts ?page into an offset when no limit is given.
	pageSize int
}

func NewPollHandler(polls ports.PollService, feed ports.FeedService, stats ports.StatsService, pageSize int) *PollHandler {
	return &PollHandler{
		polls:    polls,
		feed:     feed,
		stats:    stats,
		pageSize: pageSize,
	}
}

type createPollRequest struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
	Tags    []string `json:"tags"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	poll, err := h.polls.Create(r.Context(), ports.CreatePollInput{
		Title:   req.Title,
		Options: req.Options,
		Tags:    req.Tags,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.polls.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

// GetFeed serves a page of the feed.
//
// Query: tag (comma separated or repeated), limit, offset or page (1-based),
// total=true to include the total count.
func (h *PollHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "invalid offset")
		return
	}
	if q.Get("offset") == "" && q.Get("page") != "" {
		page, err := intParam(q.Get("page"))
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "invalid page")
			return
		}
		pageSize := limit
		if pageSize <= 0 {
			pageSize = h.pageSize
		}
		offset = (page - 1) * pageSize
	}

	input := ports.FeedInput{
		Tags:      tagsParam(q["tag"]),
		Limit:     limit,
		Offset:    offset,
		WithTotal: q.Get("total") == "true",
	}
	if userID, ok := userIDFrom(r.Context()); ok {
		input.UserID = userID.String()
	}

	page, err := h.feed.GetFeed(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *PollHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// tagsParam flattens ?tag=a,b&tag=c into [a b c]. Empty values are ignored so
// that ?tag= means no filter; blank entries inside a list are kept for the
// service to reject.
func tagsParam(values []string) []string {
	var tags []string
	for _, v := range values {
		if v == "" {
			continue
		}
		tags = append(tags, strings.Split(v, ",")...)
	}
	return tags
}
