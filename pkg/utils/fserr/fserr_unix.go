//go:build unix

// Package fserr classifies filesystem errors that must abort a run.
package fserr

import (
	"errors"

	"golang.org/x/sys/unix"
)

var fatalErrnos = []unix.Errno{
	unix.ENOSPC,
	unix.EDQUOT,
	unix.EROFS,
	unix.EIO,
}

// IsResourceFailure reports whether err is a resource-level failure of the
// destination filesystem (full disk, quota, read-only mount, device error).
func IsResourceFailure(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
