package goroutine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

func TestSafeCall(t *testing.T) {
	log := logger.NewNopLogger()

	assert.NoError(t, SafeCall(log, "ok", func() error { return nil }))

	boom := errors.New("boom")
	assert.ErrorIs(t, SafeCall(log, "err", func() error { return boom }), boom)

	err := SafeCall(log, "panic", func() error { panic("kaboom") })
	assert.ErrorContains(t, err, "kaboom")
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(logger.NewNopLogger(), "bg", func() {
		defer close(done)
		panic("background")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
