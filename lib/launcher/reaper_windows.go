//go:build windows

package launcher

// Reap is a no-op on windows
func Reap() bool {
	return false
}
