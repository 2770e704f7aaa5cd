package model

import "fmt"

// LibraryVersion mirrors the PLF library version record {major, minor, bugfix}
type LibraryVersion struct {
	Major  uint8
	Minor  uint8
	Bugfix uint8
}

func (v LibraryVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Bugfix)
}
