package events

import (
	"fmt"
	"time"
)

// ConditionEvent represents a hysteresis-confirmed change in the station's
// classified weather condition, published after the pipeline's filter
// stage accepts a transition (not on every raw observation).
type ConditionEvent interface {
	GetPreviousCondition() string
	GetCurrentCondition() string
	GetConfidence() float64
	GetTimestamp() time.Time
	GetMetadata() map[string]any
	GetMessage() string
	// IsMajorChange reports whether the transition bypassed hysteresis
	// exemption rules (e.g. clear to storm).
	IsMajorChange() bool
}

type conditionEventImpl struct {
	previous   string
	current    string
	confidence float64
	timestamp  time.Time
	metadata   map[string]any
	major      bool
}

// NewConditionEvent creates a condition-change event for the event bus.
func NewConditionEvent(previous, current string, confidence float64, major bool) ConditionEvent {
	return &conditionEventImpl{
		previous:   previous,
		current:    current,
		confidence: confidence,
		timestamp:  time.Now(),
		metadata:   make(map[string]any),
		major:      major,
	}
}

// NewConditionEventWithMetadata creates a condition-change event carrying
// extra diagnostic context, e.g. the triggering sensor field.
func NewConditionEventWithMetadata(previous, current string, confidence float64, major bool, metadata map[string]any) ConditionEvent {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &conditionEventImpl{
		previous:   previous,
		current:    current,
		confidence: confidence,
		timestamp:  time.Now(),
		metadata:   metadata,
		major:      major,
	}
}

func (e *conditionEventImpl) GetPreviousCondition() string { return e.previous }
func (e *conditionEventImpl) GetCurrentCondition() string  { return e.current }
func (e *conditionEventImpl) GetConfidence() float64       { return e.confidence }
func (e *conditionEventImpl) GetTimestamp() time.Time      { return e.timestamp }
func (e *conditionEventImpl) GetMetadata() map[string]any  { return e.metadata }
func (e *conditionEventImpl) IsMajorChange() bool          { return e.major }

func (e *conditionEventImpl) GetMessage() string {
	if e.major {
		return fmt.Sprintf("condition changed %s -> %s (major, confidence %.2f)", e.previous, e.current, e.confidence)
	}
	return fmt.Sprintf("condition changed %s -> %s (confidence %.2f)", e.previous, e.current, e.confidence)
}
