package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/openrelief/missionmatch/core/model"
)

// MockQueue is a simple in-memory queue used in tests.
type MockQueue struct {
	Messages    map[string]string
	FailNumbers map[string]bool
	mu          sync.Mutex
}

// NewMockQueue creates a new MockQueue.
func NewMockQueue() *MockQueue {
	return &MockQueue{
		Messages:    make(map[string]string),
		FailNumbers: make(map[string]bool),
	}
}

// Enqueue records the message or returns an error if configured to fail.
func (m *MockQueue) Enqueue(_ context.Context, n model.OutgoingNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNumbers[n.PhoneNumber] {
		return fmt.Errorf("enqueue failed")
	}
	m.Messages[n.PhoneNumber] = n.Message
	return nil
}
