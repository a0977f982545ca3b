package cmd

import (
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAwaitStopReturnsListenError(t *testing.T) {
	errCh := make(chan error, 1)
	errCh <- errors.New("listen tcp :8080: bind: address already in use")

	err := awaitStop(make(chan os.Signal), errCh)
	assert.ErrorContains(t, err, "address already in use")
}

func TestAwaitStopCleanExits(t *testing.T) {
	errCh := make(chan error, 1)
	errCh <- http.ErrServerClosed
	assert.NoError(t, awaitStop(make(chan os.Signal), errCh))

	sigCh := make(chan os.Signal, 1)
	sigCh <- syscall.SIGTERM
	assert.NoError(t, awaitStop(sigCh, make(chan error)))
}
