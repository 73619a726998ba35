package session

import (
	"fmt"
	"time"
)

// runWithDeadline races op against a timer; whichever settles first wins.
// When the deadline wins, the operation's eventual result is discarded and
// its goroutine must not leak a panic.
func runWithDeadline(deadline time.Duration, op func() error) error {
	done := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("operation panicked: %v", r)
			}
		}()
		done <- op()
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return ErrDeadlineExceeded
	}
}
