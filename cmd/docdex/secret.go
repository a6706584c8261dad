package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the secret encrypt command.
func (c *SecretEncryptCmd) Run(deps *Dependencies) error {
	if deps.Cipher == nil {
		fmt.Fprintf(deps.Stderr, "error: no passphrase configured\n")
		return docdex.Errorf(docdex.EINVALID, "DOCDEX_PASSPHRASE must be set to use secret commands")
	}

	token, err := deps.Cipher.Encrypt(c.Value)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, token)
	return nil
}

// Run executes the secret decrypt command.
func (c *SecretDecryptCmd) Run(deps *Dependencies) error {
	if deps.Cipher == nil {
		fmt.Fprintf(deps.Stderr, "error: no passphrase configured\n")
		return docdex.Errorf(docdex.EINVALID, "DOCDEX_PASSPHRASE must be set to use secret commands")
	}

	plaintext, err := deps.Cipher.Decrypt(c.Token)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, plaintext)
	return nil
}
