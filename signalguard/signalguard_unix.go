//go:build unix

// Package signalguard implements the critical-section signal guard of
// spec.md section 5: block SIGINT/SIGTERM/SIGHUP/SIGQUIT for the duration of
// the directory rewrite so a terminated process can never leave a partially
// written directory block on disk.
package signalguard

import (
	"golang.org/x/sys/unix"

	"github.com/lwouis/fatsort-go/ferr"
)

var guardedSignals = []unix.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP, unix.SIGQUIT}

// Enter blocks the guarded signals for the calling thread and returns a
// Leave function that restores the previous signal mask. Signals raised
// while blocked are queued by the kernel and delivered the moment Leave
// unblocks them.
func Enter() (leave func(), err error) {
	var guarded, previous unix.Sigset_t
	for _, sig := range guardedSignals {
		addSignal(&guarded, sig)
	}

	if err := unix.Sigprocmask(unix.SIG_BLOCK, &guarded, &previous); err != nil {
		return nil, ferr.ErrDeviceError.WithMessage("sigprocmask block failed").WrapError(err)
	}

	return func() {
		_ = unix.Sigprocmask(unix.SIG_SETMASK, &previous, nil)
	}, nil
}

func addSignal(set *unix.Sigset_t, sig unix.Signal) {
	unix.SigsetAdd(set, sig)
}
