package factory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry[string]()
	require.NoError(t, r.Register("echo", func(conf map[string]any) (string, error) {
		var c struct {
			Text string `json:"text"`
		}
		if err := Decode(conf, &c); err != nil {
			return "", err
		}
		return c.Text, nil
	}))

	got, err := r.Create(ModuleConfig{Type: "echo", Conf: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry[int]()
	f := func(map[string]any) (int, error) { return 0, nil }
	require.NoError(t, r.Register("a", f))
	assert.Error(t, r.Register("a", f))
	assert.Error(t, r.Register("b", nil))
}

func TestRegistryUnknownType(t *testing.T) {
	r := NewRegistry[int]()
	require.NoError(t, r.Register("known", func(map[string]any) (int, error) { return 1, nil }))
	assert.Equal(t, []string{"known"}, r.Names())
	_, err := r.Create(ModuleConfig{Type: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known")
}

func TestRegistryFactoryError(t *testing.T) {
	r := NewRegistry[int]()
	require.NoError(t, r.Register("boom", func(map[string]any) (int, error) {
		return 0, fmt.Errorf("boom")
	}))
	_, err := r.Create(ModuleConfig{Type: "boom"})
	assert.Error(t, err)
}
