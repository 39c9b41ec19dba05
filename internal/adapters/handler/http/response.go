package http

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/hlog"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeFailure maps a use case failure onto an HTTP status. Unknown failures
// are logged and reported without their cause.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	f := domain.AsFailure(err)

	var status int
	switch f.Kind() {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindQuota:
		status = http.StatusTooManyRequests
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, string(domain.ReasonUnknownError), "internal error")
		return
	}

	message := string(f.Reason)
	if f.Err != nil {
		message = f.Err.Error()
	}
	writeError(w, status, string(f.Reason), message)
}

var errInvalidBody = errors.New("invalid request body")

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}
