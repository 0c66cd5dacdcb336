package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantJSON  bool
	}{
		{"debug text", "debug", "text", true, false},
		{"info json", "info", "json", false, true},
		{"unknown level", "loud", "text", false, false},
		{"upper case level", "DEBUG", "json", true, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var buf bytes.Buffer
			logger := newLogger(tc.level, tc.format, &buf)

			// Act
			logger.Debug("debug line")
			logger.Info("info line")

			// Assert
			out := buf.String()
			assert.Equal(t, tc.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, out, "info line")
			assert.Contains(t, out, "nodegraph")
			if tc.wantJSON {
				lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
				var rec map[string]any
				require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
				assert.Equal(t, "nodegraph", rec["component"])
			}
		})
	}
}
