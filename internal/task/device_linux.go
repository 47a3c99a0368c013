//go:build linux

package task

import "syscall"

// sameDevice reports whether a and b reside on the same filesystem,
// enabling the quick-move optimization.
func sameDevice(a, b string) bool {
	var sa, sb syscall.Stat_t
	if err := syscall.Stat(a, &sa); err != nil {
		return false
	}
	if err := syscall.Stat(b, &sb); err != nil {
		return false
	}
	return sa.Dev == sb.Dev
}
