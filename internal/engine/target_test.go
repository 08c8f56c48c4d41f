package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		mode   OutputMode
		str    string
	}{
		{"zero", Target{}, OutputNone, ""},
		{"file", FileTarget("/tmp/x.bin"), OutputFile, "/tmp/x.bin"},
		{"stream", StreamTarget(&bytes.Buffer{}), OutputStream, "<stream>"},
		{"nil stream", StreamTarget(nil), OutputNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.mode, tt.target.Mode())
			require.Equal(t, tt.mode == OutputNone, tt.target.IsZero())
			require.Equal(t, tt.str, tt.target.String())
		})
	}
}
