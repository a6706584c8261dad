package docdex

import "context"

// SearchResult is one hit returned by the search backend.
type SearchResult struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Searcher is the search backend collaborator. Ranking and vector
// internals are outside this core.
type Searcher interface {
	Search(ctx context.Context, scopeID, query string, limit int) ([]*SearchResult, error)
}

// Job is a unit of ingestion work handed to the external job queue.
type Job struct {
	SourceID string `json:"sourceId"`
	URL      string `json:"url"`
	SHA      string `json:"sha,omitempty"`
}

// Queue is the external job queue collaborator.
type Queue interface {
	Enqueue(ctx context.Context, jobs []Job) error
}

// Cipher encrypts and decrypts short secrets such as API tokens.
// Encrypting then decrypting any non-empty string yields the original
// string exactly.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
