package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-user-service/pkg/helpers"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "Simple password",
			password: "pw1",
		},
		{
			name:     "Long password",
			password: "a-much-longer-password-with-symbols-!@#$%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := helpers.HashPassword(tt.password)

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, helpers.VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	// Two hashes of the same password must differ, and both must verify.
	h1, err := helpers.HashPassword("pw1")
	assert.NoError(t, err)
	h2, err := helpers.HashPassword("pw1")
	assert.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, helpers.VerifyPassword("pw1", h1))
	assert.True(t, helpers.VerifyPassword("pw1", h2))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := helpers.HashPassword("correct-password")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{
			name:     "Matching password",
			password: "correct-password",
			hash:     hash,
			want:     true,
		},
		{
			name:     "Wrong password",
			password: "wrong-password",
			hash:     hash,
			want:     false,
		},
		{
			name:     "Malformed hash",
			password: "correct-password",
			hash:     "not-a-bcrypt-hash",
			want:     false,
		},
		{
			name:     "Empty hash",
			password: "correct-password",
			hash:     "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, helpers.VerifyPassword(tt.password, tt.hash))
		})
	}
}
