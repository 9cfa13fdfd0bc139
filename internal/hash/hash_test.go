package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	password := "Password123!"
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	require.NotEqual(t, password, hashed)

	ok, err := CheckPassword(hashed, password)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hashed, "Password123?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltUniqueness(t *testing.T) {
	t.Parallel()

	password := "same-password"
	first, err := HashPassword(password)
	require.NoError(t, err)
	second, err := HashPassword(password)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, h := range []string{first, second} {
		ok, err := CheckPassword(h, password)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	ok, err := CheckPassword("not-a-bcrypt-hash", "Password123!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordTooLong)
	assert.False(t, ok)
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "72 bytes is accepted", password: strings.Repeat("a", 72), wantErr: false},
		{name: "73 bytes is rejected", password: strings.Repeat("a", 73), wantErr: true},
		{name: "multibyte runes count in bytes", password: strings.Repeat("ю", 37), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hashed, err := HashPassword(tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPasswordTooLong)
				assert.Empty(t, hashed)

				_, err = CheckPassword("whatever", tt.password)
				require.ErrorIs(t, err, ErrPasswordTooLong)
				return
			}
			require.NoError(t, err)

			ok, err := CheckPassword(hashed, tt.password)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}
