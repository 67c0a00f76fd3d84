package lp

import "errors"

var (
	// ErrUnbounded is returned when an entering column has no positive
	// coefficient, so the objective can grow without limit.
	ErrUnbounded = errors.New("lp: problem is unbounded")
	// ErrIterationLimit is returned when the pivot loop exceeds the
	// configured maximum number of iterations.
	ErrIterationLimit = errors.New("lp: iteration limit exceeded")
	// ErrInfeasibleStart is returned when a right-hand side entry is negative
	// and the all-slack basis is therefore not feasible.
	ErrInfeasibleStart = errors.New("lp: all-slack start is infeasible")
	// ErrInfeasible is returned by backends able to prove infeasibility.
	ErrInfeasible = errors.New("lp: problem is infeasible")
	// ErrShape indicates mismatched dimensions between c, A and b.
	ErrShape = errors.New("lp: size mismatch")
)

// Reason maps an error to a stable identifier suitable for labels and API
// responses.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnbounded):
		return "unbounded"
	case errors.Is(err, ErrIterationLimit):
		return "iteration_limit"
	case errors.Is(err, ErrInfeasibleStart):
		return "infeasible_start"
	case errors.Is(err, ErrInfeasible):
		return "infeasible"
	case errors.Is(err, ErrShape):
		return "shape"
	default:
		return "unknown"
	}
}
