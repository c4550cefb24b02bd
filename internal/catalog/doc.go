// Package catalog defines the technology record model shared by the
// enrichment pipeline and both persistence backends, along with the slug
// normalization that serves as the dedup and upsert key everywhere.
package catalog
