package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lsgap/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logging.Level{
		"":        logging.LevelInfo,
		"info":    logging.LevelInfo,
		"DEBUG":   logging.LevelDebug,
		"warning": logging.LevelWarn,
		" error ": logging.LevelError,
	}
	for in, want := range cases {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("loud")
	require.ErrorIs(t, err, logging.ErrBadLevel)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})

	l.Info("dropped")
	l.Warn("kept", "scaffold_id", "scf1")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "scaffold_id=scf1")
}

func TestNewJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Config{JSON: true, Output: &buf, Service: "lsgap"})

	l.Info("hello", "gaps", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "lsgap", rec["service"])
	assert.Equal(t, 3.0, rec["gaps"])
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", logging.LevelDebug.String())
	assert.Equal(t, "unknown", logging.Level(9).String())
}
