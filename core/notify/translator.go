// Package notify fans a single mission notification out to many recipients,
// translating once per distinct language and enqueueing one item per
// recipient.
package notify

import (
	"context"

	"github.com/openrelief/missionmatch/core/model"
)

// Translator is the external translation capability.
type Translator interface {
	// Translate returns text translated into the target language.
	Translate(ctx context.Context, text, language string) (string, error)
	// DefaultLanguage is the language the source message is written in.
	DefaultLanguage() string
	// IsConfigured reports whether translation is available at all.
	IsConfigured() bool
}

// Queue is the outgoing-notification collaborator. Enqueue is fire-and-forget
// from the dispatcher's perspective; delivery guarantees belong to the
// consumer.
type Queue interface {
	Enqueue(ctx context.Context, n model.OutgoingNotification) error
}
