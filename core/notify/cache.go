package notify

import (
	"context"
	"sync"
)

// Cache memoizes translations of one source message per target language. It
// is scoped to a single dispatch batch: the source text is batch-specific, so
// nothing is shared across batches.
//
// Lookups are synchronized so that concurrent recipients sharing a language
// trigger at most one external translation call.
type Cache struct {
	translator Translator
	source     string

	mu       sync.Mutex
	entries  map[string]string
	failures map[string]error
}

// NewCache creates a cache for one dispatch batch of the given source text.
func NewCache(translator Translator, source string) *Cache {
	return &Cache{
		translator: translator,
		source:     source,
		entries:    make(map[string]string),
		failures:   make(map[string]error),
	}
}

// Get returns the source text translated into language. The default language
// and an unconfigured translator take the zero-cost path. A translator error
// fails open: the untranslated source is cached and returned, and the error
// recorded for the caller.
//
// The second result reports whether the text was actually translated.
func (c *Cache) Get(ctx context.Context, language string) (string, bool, error) {
	if !c.translator.IsConfigured() || language == c.translator.DefaultLanguage() {
		return c.source, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if text, ok := c.entries[language]; ok {
		return text, text != c.source, c.failures[language]
	}

	text, err := c.translator.Translate(ctx, c.source, language)
	if err != nil {
		translationFailures.Inc()
		c.entries[language] = c.source
		c.failures[language] = err
		return c.source, false, err
	}
	translationCalls.Inc()
	c.entries[language] = text
	return text, true, nil
}

// Failures returns the translation errors recorded during the batch, keyed by
// language.
func (c *Cache) Failures() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]error, len(c.failures))
	for k, v := range c.failures {
		out[k] = v
	}
	return out
}
