// Package docdex provides the core of a documentation indexing service.
// It discovers the set of documents to ingest for a URL or repository
// reference, gates ingestion and search behind per-account quotas, and
// tracks ephemeral search sessions for result deduplication.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, redis/, http/).
package docdex
