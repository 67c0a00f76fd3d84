// Package plans exposes the planner over HTTP.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/blendplan/core/lp"
	"github.com/kilianp07/blendplan/core/model"
	"github.com/kilianp07/blendplan/core/planner"
	"github.com/kilianp07/blendplan/core/runlog"
	"github.com/kilianp07/blendplan/pkg/problemio"
)

// Planner solves one problem. *planner.Planner satisfies it.
type Planner interface {
	Plan(ctx context.Context, in model.ProblemInput) (model.Plan, error)
}

const defaultMaxBody = 1 << 20

// ReasonDecode is the error reason of a body that is not a valid problem
// document. Every other reason comes from lp.Reason.
const ReasonDecode = "decode"

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Register mounts the solve and runs endpoints on mux.
func Register(mux *http.ServeMux, p Planner, store runlog.Store, token string, maxBody int64) {
	mux.Handle("/api/plans/solve", NewSolveHandler(p, token, maxBody))
	mux.Handle("/api/plans/runs", NewRunsHandler(store, token))
}

// NewSolveHandler returns an HTTP handler solving the problem posted to
// POST /api/plans/solve. A malformed body or an inconsistent shape answers
// 400, a problem without solution answers 422. Requests must include an
// Authorization header with "Bearer <token>" when token is non-empty.
func NewSolveHandler(p Planner, token string, maxBody int64) http.Handler {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body := http.MaxBytesReader(w, r.Body, maxBody)
		in, err := problemio.Read(body, problemio.JSON)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Reason: ReasonDecode})
			return
		}
		plan, err := p.Plan(r.Context(), in)
		if err != nil {
			writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error(), Reason: lp.Reason(err)})
			return
		}
		writeJSON(w, http.StatusOK, plan)
	})
}

// NewRunsHandler returns an HTTP handler exposing the run log via
// GET /api/plans/runs?start=&end=&status=&run_id=&limit=. Times are RFC 3339.
func NewRunsHandler(store runlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []runlog.RunRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}

func authorized(r *http.Request, token string) bool {
	return token == "" || r.Header.Get("Authorization") == "Bearer "+token
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lp.ErrShape):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrNoSolution):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func parseQuery(r *http.Request) (runlog.RunQuery, error) {
	v := r.URL.Query()
	q := runlog.RunQuery{Status: v.Get("status"), RunID: v.Get("run_id")}
	if s := v.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.Start = t
	}
	if s := v.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.End = t
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, errors.New("limit must be a non-negative integer")
		}
		q.Limit = n
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
