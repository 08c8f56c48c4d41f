package engine

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"strings"
)

// hashAccumulator computes an MD5 digest over every byte written to the
// sink. A disabled accumulator ignores all input.
type hashAccumulator struct {
	h hash.Hash
}

func newHashAccumulator(enabled bool) *hashAccumulator {
	if !enabled {
		return &hashAccumulator{}
	}
	return &hashAccumulator{h: md5.New()}
}

// Enabled reports whether the accumulator computes a digest
func (a *hashAccumulator) Enabled() bool {
	return a.h != nil
}

// Update feeds p into the digest
func (a *hashAccumulator) Update(p []byte) {
	if a.h != nil {
		a.h.Write(p)
	}
}

// Finalize returns the upper-case hex digest, or "" when disabled
func (a *hashAccumulator) Finalize() string {
	if a.h == nil {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(a.h.Sum(nil)))
}
