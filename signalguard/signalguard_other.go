//go:build !unix

// Package signalguard implements the critical-section signal guard of
// spec.md section 5. Non-unix targets have no process-wide signal mask to
// block, so Enter is a no-op that still returns a valid Leave.
package signalguard

func Enter() (leave func(), err error) {
	return func() {}, nil
}
