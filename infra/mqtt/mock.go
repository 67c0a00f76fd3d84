package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/blendplan/core/model"
)

// MockPublisher records published plans. It is used in tests.
type MockPublisher struct {
	mu    sync.Mutex
	Plans []model.Plan
	Fail  bool
	// Published receives the run id of every recorded plan when not nil.
	Published chan string
}

// NewMockPublisher creates a MockPublisher with a buffered notification channel.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Published: make(chan string, 16)}
}

// PublishPlan records the plan or fails when configured to.
func (m *MockPublisher) PublishPlan(_ context.Context, plan model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Plans = append(m.Plans, plan)
	if m.Published != nil {
		select {
		case m.Published <- plan.RunID:
		default:
		}
	}
	return nil
}

// Count returns the number of recorded plans.
func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Plans)
}
