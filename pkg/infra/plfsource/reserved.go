package plfsource

// Administrative entries that never hold filesystem content
const (
	ReservedVolumeConfig = "000_0x0b_0_volume_config"
	ReservedMainBoot     = "001_0x03_0_main_boot.plf"
)

// IsReserved reports whether id names a reserved entry. Matching is exact.
func IsReserved(id string) bool {
	return id == ReservedVolumeConfig || id == ReservedMainBoot
}
