//go:build !windows

package launcher

import (
	"os"
	"sync"

	"github.com/ramr/go-reaper"
)

var reaperOnce sync.Once

// Reap starts a guard that cleans up zombie processes left by the browser.
// It only matters when the process runs as pid 1, such as the entrypoint of a container,
// because nobody else will wait for the orphaned renderer processes.
// It returns true if the guard is running.
func Reap() bool {
	if os.Getpid() != 1 {
		return false
	}

	reaperOnce.Do(func() {
		go reaper.Reap()
	})

	return true
}
