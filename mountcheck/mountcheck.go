// Package mountcheck implements the advisory mount check of spec.md
// section 5 ("The mount check is advisory and performed before open under
// user opt-in"), grounded on the /proc line-scanning idiom of
// ostafen-digler's pkg/sysinfo.
package mountcheck

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// IsMounted reports whether devicePath appears as a mount source in
// /proc/self/mountinfo. On platforms without that file, or if it can't be
// read, this returns false — the check is advisory, never a hard failure.
func IsMounted(devicePath string) bool {
	if runtime.GOOS != "linux" {
		return false
	}

	f, err := os.Open("/proc/self/mountinfo")
	if err != nil {
		return false
	}
	defer f.Close()

	resolved, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		resolved = devicePath
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if mountSourceMatches(scanner.Text(), devicePath, resolved) {
			return true
		}
	}
	return false
}

// mountSourceMatches checks one /proc/self/mountinfo line's mount-source
// field, the second field after the literal " - " separator (the first is
// the filesystem type), against either form of the device path.
func mountSourceMatches(line, devicePath, resolved string) bool {
	sep := strings.Index(line, " - ")
	if sep < 0 {
		return false
	}
	fields := strings.Fields(line[sep+3:])
	if len(fields) < 2 {
		return false
	}
	source := fields[1]
	return source == devicePath || source == resolved
}
