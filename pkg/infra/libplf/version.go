// Package libplf exposes the PLF library version record used for diagnostics.
package libplf

import "github.com/m-mizutani/plfrecover/pkg/domain/model"

var version = model.LibraryVersion{
	Major:  0,
	Minor:  1,
	Bugfix: 0,
}

// GetVersion returns the library version record. The record is shared; callers
// must not modify it.
func GetVersion() *model.LibraryVersion {
	return &version
}
