package web

import (
	"encoding/json"
	"net/http"

	spendErrors "github.com/robinvdvleuten/spendlog/errors"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// NoticeResponse is the body of a request that changed nothing. It is not a failure.
type NoticeResponse struct {
	Changed bool   `json:"changed"`
	Notice  string `json:"notice"`
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Errors []spendErrors.ErrorJSON `json:"errors"`
}

var errorFormatter = spendErrors.NewJSONFormatter()

// writeError maps err to a status code and writes it as an ErrorResponse. An empty
// ledger is reported as a NoticeResponse instead.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if spendErrors.KindOf(err) == spendErrors.KindEmptyLedger {
		writeJSONResponse(w, NoticeResponse{Notice: err.Error()})
		return
	}

	status := statusFor(spendErrors.KindOf(err))
	if status >= http.StatusInternalServerError {
		s.Logger.Error().Err(err).Msg("request failed")
	}
	writeJSONStatus(w, status, ErrorResponse{Errors: errorFormatter.FormatAllToSlice([]error{err})})
}

func statusFor(kind spendErrors.Kind) int {
	switch kind {
	case spendErrors.KindValidation, spendErrors.KindEvaluation, spendErrors.KindUnknownCountry:
		return http.StatusBadRequest
	case spendErrors.KindNotFound:
		return http.StatusNotFound
	case spendErrors.KindDuplicateID:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
