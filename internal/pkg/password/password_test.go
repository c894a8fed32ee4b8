package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_FreshSaltPerCall(t *testing.T) {
	first, err := Hash("rahasia123")
	require.NoError(t, err)
	second, err := Hash("rahasia123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "rahasia123")
	assert.True(t, Verify("rahasia123", first))
	assert.True(t, Verify("rahasia123", second))
}

func TestVerify(t *testing.T) {
	hash, err := Hash("NewPass1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"matching password", "NewPass1", hash, true},
		{"wrong password", "newpass1", hash, false},
		{"empty password", "", hash, false},
		{"garbage hash", "NewPass1", "not-a-bcrypt-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.password, tt.hash))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("abc"))
	assert.True(t, ValidatePassword("abcdef"))
}
