package pe

import "fmt"

const (
	versionMajor       = 1
	versionMinor       = 2
	versionMaintenance = 0
)

// LibInfo describes the library itself: a printable version string and
// the same version packed into one integer, major in the top 16 bits.
type LibInfo struct {
	Version       string
	PackedVersion uint64
}

// GetLibInfo returns the library's version record.
func GetLibInfo() LibInfo {
	return LibInfo{
		Version: fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionMaintenance),
		PackedVersion: uint64(versionMajor)<<48 |
			uint64(versionMinor)<<32 |
			uint64(versionMaintenance)<<16,
	}
}
