package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAccumulator(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{"empty", nil, "D41D8CD98F00B204E9800998ECF8427E"},
		{"single chunk", []string{"abc"}, "900150983CD24FB0D6963F7D28E17F72"},
		{"split chunks", []string{"a", "b", "c"}, "900150983CD24FB0D6963F7D28E17F72"},
		{"fox", []string{"The quick brown fox ", "jumps over the lazy dog"}, "9E107D9D372BB6826BD81D3542A419D6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHashAccumulator(true)
			require.True(t, h.Enabled())
			for _, c := range tt.chunks {
				h.Update([]byte(c))
			}
			require.Equal(t, tt.want, h.Finalize())
		})
	}
}

func TestHashAccumulatorDisabled(t *testing.T) {
	h := newHashAccumulator(false)
	require.False(t, h.Enabled())
	h.Update([]byte("ignored"))
	require.Empty(t, h.Finalize())
}
