package secret_test

import (
	"testing"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipher_RoundTrip(t *testing.T) {
	t.Parallel()

	cipher, err := secret.NewCipher("correct horse battery staple")
	require.NoError(t, err)

	for _, plaintext := range []string{
		"ghp_exampletoken123",
		"x",
		"token with spaces and ünïcödé",
	} {
		encrypted, err := cipher.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, encrypted)

		decrypted, err := cipher.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestCipher_EncryptIsNonDeterministic(t *testing.T) {
	t.Parallel()

	cipher, err := secret.NewCipher("passphrase")
	require.NoError(t, err)

	a, err := cipher.Encrypt("same token")
	require.NoError(t, err)
	b, err := cipher.Encrypt("same token")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCipher_DecryptRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	cipher, err := secret.NewCipher("passphrase")
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt("secret token")
	require.NoError(t, err)

	tampered := []byte(encrypted)
	tampered[len(tampered)-1] ^= 1

	_, err = cipher.Decrypt(string(tampered))
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}

func TestCipher_DecryptRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cipher, err := secret.NewCipher("passphrase")
	require.NoError(t, err)

	for _, input := range []string{"", "not base64 !!!", "dG9vIHNob3J0"} {
		_, err := cipher.Decrypt(input)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err), "input %q", input)
	}
}

func TestCipher_WrongPassphraseFails(t *testing.T) {
	t.Parallel()

	a, err := secret.NewCipher("passphrase one")
	require.NoError(t, err)
	b, err := secret.NewCipher("passphrase two")
	require.NoError(t, err)

	encrypted, err := a.Encrypt("secret token")
	require.NoError(t, err)

	_, err = b.Decrypt(encrypted)
	require.Error(t, err)
}

func TestNewCipher_RequiresPassphrase(t *testing.T) {
	t.Parallel()

	_, err := secret.NewCipher("")
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}
