// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - PlanEvent: outcome of one planning request, successful or not
package events
