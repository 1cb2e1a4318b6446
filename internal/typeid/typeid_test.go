package typeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	tests := []struct {
		gen    func() string
		prefix string
	}{
		{NewObjectID, PrefixObject},
		{NewLayerID, PrefixLayer},
		{NewSessionID, PrefixSession},
		{NewOpID, PrefixOp},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := tt.gen()
			require.NoError(t, Validate(id, tt.prefix))
			assert.Error(t, Validate(id, "other"))
		})
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixObject))
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewObjectID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
