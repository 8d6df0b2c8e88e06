package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Writer: &buf})

	l.Debug().Str("task_id", "abc").Msg("task completed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "task completed", line["message"])
	assert.Equal(t, "abc", line["task_id"])
	assert.Equal(t, "taskboard", line["service"])
	assert.Contains(t, line, "time")
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "chatty", Writer: &buf})

	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf})

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}
