package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/export"
	"github.com/robinvdvleuten/spendlog/filter"
	"github.com/robinvdvleuten/spendlog/ledger"
)

// ExpenseRequest is the body of create and update requests.
type ExpenseRequest struct {
	ID            string           `json:"id,omitempty"`
	Description   string           `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          string           `json:"date"`
	Category      string           `json:"category"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         string           `json:"notes"`
}

// toEntry converts the request, reporting every invalid field at once. A missing
// date defaults to today.
func (req ExpenseRequest) toEntry() (entry.Entry, error) {
	e := entry.Entry{
		ID:            strings.TrimSpace(req.ID),
		Description:   req.Description,
		Date:          entry.Date(strings.TrimSpace(req.Date)),
		Category:      entry.Category(strings.TrimSpace(req.Category)),
		PaymentMethod: entry.PaymentMethod(strings.TrimSpace(req.PaymentMethod)),
		Notes:         req.Notes,
	}
	if e.Date.IsZero() {
		e.Date = entry.Today()
	}
	if c, err := entry.ParseCategory(req.Category); err == nil {
		e.Category = c
	}
	if p, err := entry.ParsePaymentMethod(req.PaymentMethod); err == nil {
		e.PaymentMethod = p
	}

	var errs []error
	if req.Amount == nil {
		errs = append(errs, &entry.ValidationError{Field: "amount", Message: "is required"})
	} else {
		e.Amount = *req.Amount
	}

	if err := e.Validate(); err != nil {
		var verrs *entry.ValidationErrors
		if errors.As(err, &verrs) {
			errs = append(errs, verrs.Errors...)
		}
	}

	if len(errs) > 0 {
		return entry.Entry{}, &entry.ValidationErrors{Errors: errs}
	}
	return e, nil
}

// ListResponse is the body of GET /api/expenses.
type ListResponse struct {
	Entries []entry.Entry `json:"entries"`
	Total   int           `json:"total"`
}

// criteriaParams reads filter criteria from the query string. ok is false when no
// criteria parameter is present.
func criteriaParams(r *http.Request) (params filter.Params, ok bool) {
	q := r.URL.Query()
	for _, key := range []string{"search", "category", "paymentMethod", "from", "to", "sort"} {
		if q.Has(key) {
			ok = true
		}
	}
	return filter.Params{
		Search:        q.Get("search"),
		Category:      q.Get("category"),
		PaymentMethod: q.Get("paymentMethod"),
		DateStart:     q.Get("from"),
		DateEnd:       q.Get("to"),
		Sort:          q.Get("sort"),
	}, ok
}

// handleGetView returns the derived view. Criteria query parameters select what is
// shown for this request only; the active criteria are left alone.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	params, ok := criteriaParams(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		criteria, err := params.Criteria()
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSONResponse(w, s.tracker.ViewFor(r.Context(), criteria))
		return
	}

	writeJSONResponse(w, s.tracker.View(r.Context()))
}

func (s *Server) handlePutCriteria(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Search        string `json:"search"`
		Category      string `json:"category"`
		PaymentMethod string `json:"paymentMethod"`
		DateStart     string `json:"dateStart"`
		DateEnd       string `json:"dateEnd"`
		Sort          string `json:"sort"`
	}
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	criteria, err := filter.Params(body).Criteria()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSONResponse(w, s.tracker.SetCriteria(r.Context(), criteria))
}

func (s *Server) handleDeleteCriteria(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSONResponse(w, s.tracker.ResetCriteria(r.Context()))
}

// handleListExpenses returns the full, unfiltered ledger.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entries := s.tracker.Entries()
	s.mu.Unlock()

	writeJSONResponse(w, ListResponse{Entries: entries, Total: len(entries)})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	e, ok := s.tracker.Get(id)
	s.mu.Unlock()

	if !ok {
		s.writeError(w, &ledger.NotFoundError{ID: id})
		return
	}
	writeJSONResponse(w, e)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := req.toEntry()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.tracker.Add(r.Context(), e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req ExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, err := req.toEntry()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, changed, err := s.tracker.Update(r.Context(), id, e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !changed {
		writeJSONResponse(w, NoticeResponse{Notice: (&ledger.NotFoundError{ID: id}).Error()})
		return
	}
	writeJSONResponse(w, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.tracker.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSONResponse(w, map[string]bool{"removed": removed})
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tracker.ClearAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport downloads the full ledger as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	s.mu.Lock()
	err := s.tracker.Export(r.Context(), &buf)
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	_, _ = w.Write(buf.Bytes())
}
