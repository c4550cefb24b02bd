// Package services holds the shared plumbing for external collaborator
// clients: the error taxonomy used for stage failure classification, context
// helpers that thread item identity through pipeline stages, and the generic
// retry-with-backoff wrapper.
package services
