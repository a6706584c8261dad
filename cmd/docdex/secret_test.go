package main_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/docdex/docdex"
	main "github.com/docdex/docdex/cmd/docdex"
	"github.com/docdex/docdex/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("encrypt then decrypt round-trips", func(t *testing.T) {
		t.Parallel()

		cipher, err := secret.NewCipher("test-passphrase")
		require.NoError(t, err)

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Cipher = cipher

		enc := &main.SecretEncryptCmd{Value: "ghp_token123"}
		require.NoError(t, enc.Run(deps))
		token := strings.TrimSpace(stdout.String())
		require.NotEmpty(t, token)
		assert.NotEqual(t, "ghp_token123", token)

		stdout.Reset()
		dec := &main.SecretDecryptCmd{Token: token}
		require.NoError(t, dec.Run(deps))
		assert.Equal(t, "ghp_token123", strings.TrimSpace(stdout.String()))
		assert.Empty(t, stderr.String())
	})

	t.Run("requires a configured cipher", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)

		enc := &main.SecretEncryptCmd{Value: "anything"}
		err := enc.Run(deps)
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no passphrase configured")
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		t.Parallel()

		cipher, err := secret.NewCipher("test-passphrase")
		require.NoError(t, err)

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Cipher = cipher

		dec := &main.SecretDecryptCmd{Token: "bm90IGEgcmVhbCB0b2tlbg=="}
		err = dec.Run(deps)
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}
