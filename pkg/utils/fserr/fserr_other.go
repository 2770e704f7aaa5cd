//go:build !unix

// Package fserr classifies filesystem errors that must abort a run.
package fserr

// IsResourceFailure always returns false outside unix; only the destination
// root itself is treated as fatal there.
func IsResourceFailure(err error) bool {
	return false
}
