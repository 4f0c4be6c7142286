package web

import (
	"errors"
	"net/http"

	"github.com/robinvdvleuten/spendlog/calc"
	spendErrors "github.com/robinvdvleuten/spendlog/errors"
	"github.com/robinvdvleuten/spendlog/locale"
)

// CalculatorResponse is the calculator state after a request. Error is set when the
// last key press failed to evaluate.
type CalculatorResponse struct {
	Expression string                 `json:"expression"`
	Display    string                 `json:"display"`
	Failed     bool                   `json:"failed"`
	Error      *spendErrors.ErrorJSON `json:"error,omitempty"`
}

func calculatorResponse(c *calc.Calculator) CalculatorResponse {
	return CalculatorResponse{
		Expression: c.Expression(),
		Display:    c.Display(),
		Failed:     c.Failed(),
	}
}

func (s *Server) handleGetCalculator(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSONResponse(w, calculatorResponse(s.tracker.Calculator()))
}

// handlePressCalculator presses each key in order. Unknown keys reject the whole
// request before anything is pressed; an evaluation failure is part of the normal
// response.
func (s *Server) handlePressCalculator(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Keys []string `json:"keys"`
	}
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for _, key := range body.Keys {
		if !calc.IsKey(key) {
			http.Error(w, "Unknown calculator key "+key, http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.tracker.Calculator()
	var evalErr error
	for _, key := range body.Keys {
		if err := c.Press(key); err != nil {
			var e *calc.EvaluationError
			if !errors.As(err, &e) {
				s.writeError(w, err)
				return
			}
			evalErr = err
		}
	}

	resp := calculatorResponse(c)
	if evalErr != nil {
		errJSON := errorFormatter.FormatAllToSlice([]error{evalErr})[0]
		resp.Error = &errJSON
	}
	writeJSONResponse(w, resp)
}

// CountryResponse is the selected country plus every selectable one.
type CountryResponse struct {
	Country   locale.Profile   `json:"country"`
	Countries []locale.Profile `json:"countries"`
}

func (s *Server) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSONResponse(w, CountryResponse{Country: s.tracker.Country(), Countries: locale.Profiles})
}

func (s *Server) handlePutCountry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.tracker.SetCountry(r.Context(), body.Code)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSONResponse(w, CountryResponse{Country: profile, Countries: locale.Profiles})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, map[string]string{
		"version": s.Version,
		"commit":  s.CommitSHA,
	})
}
