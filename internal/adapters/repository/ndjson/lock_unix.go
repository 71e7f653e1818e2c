package ndjson

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive blocks until the advisory lock on f is held.
func lockExclusive(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			return err
		}
	}
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

func writable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
