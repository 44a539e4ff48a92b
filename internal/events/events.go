// Package events keeps the timeline of a wizard session.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSessionCreated   = "SESSION_CREATED"
	TypeStepChanged      = "STEP_CHANGED"
	TypeOffersGenerated  = "OFFERS_GENERATED"
	TypePaymentPhase     = "PAYMENT_PHASE"
	TypePaymentCompleted = "PAYMENT_COMPLETED"
)

type Event struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	EventType  string    `json:"eventType"`
	Summary    string    `json:"summary"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

type Recorder interface {
	Record(ctx context.Context, e Event) error
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
}

// Memory is a process-local Recorder. Timelines die with the process.
type Memory struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewMemory() *Memory {
	return &Memory{events: make(map[string][]Event)}
}

func (m *Memory) Record(_ context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	m.mu.Lock()
	m.events[e.SessionID] = append(m.events[e.SessionID], e)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListBySession(_ context.Context, sessionID string) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, len(m.events[sessionID]))
	copy(out, m.events[sessionID])
	return out, nil
}

// Forget drops a session's timeline, used when a session expires.
func (m *Memory) Forget(sessionID string) {
	m.mu.Lock()
	delete(m.events, sessionID)
	m.mu.Unlock()
}
