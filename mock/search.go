package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of docdex.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, scopeID, query string, limit int) ([]*docdex.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, scopeID, query string, limit int) ([]*docdex.SearchResult, error) {
	return s.SearchFn(ctx, scopeID, query, limit)
}

var _ docdex.Queue = (*Queue)(nil)

// Queue is a mock implementation of docdex.Queue.
type Queue struct {
	EnqueueFn func(ctx context.Context, jobs []docdex.Job) error
}

func (q *Queue) Enqueue(ctx context.Context, jobs []docdex.Job) error {
	return q.EnqueueFn(ctx, jobs)
}

var _ docdex.Cipher = (*Cipher)(nil)

// Cipher is a mock implementation of docdex.Cipher.
type Cipher struct {
	EncryptFn func(plaintext string) (string, error)
	DecryptFn func(ciphertext string) (string, error)
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	return c.EncryptFn(plaintext)
}

func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	return c.DecryptFn(ciphertext)
}
