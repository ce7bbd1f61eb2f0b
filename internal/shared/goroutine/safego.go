// Package goroutine runs callbacks with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

// SafeCall runs fn on the current goroutine and converts a panic into an error.
func SafeCall(log logger.Interface, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("callback panicked",
				"callback", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}

// SafeGo launches fn on a new goroutine. Panics are logged instead of
// crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		_ = SafeCall(log, name, func() error {
			fn()
			return nil
		})
	}()
}
