// Package mqtt defines how finished plans leave the process. infra/mqtt
// provides the Paho implementation.
package mqtt

import (
	"context"
	"errors"
	"strings"

	"github.com/kilianp07/blendplan/core/model"
)

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt: not connected")

// Publisher delivers plans to downstream consumers.
type Publisher interface {
	PublishPlan(ctx context.Context, plan model.Plan) error
}

// PlanTopic returns the topic a plan is published on: <prefix>/<run_id>.
func PlanTopic(prefix, runID string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + runID
}
