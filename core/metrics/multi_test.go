package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordSolve(SolveEvent) error {
	r.count++
	return r.err
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{err: errors.New("down")}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordSolve(SolveEvent{RunID: "r1", Status: "ok"}); err == nil {
		t.Fatalf("expected error from first sink")
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("event not forwarded to every sink")
	}
}
