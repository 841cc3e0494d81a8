//go:build !gocv

package capture

import "errors"

// This file provides a no-CGO stub for the gocv backend. It is compiled when
// the 'gocv' build tag is NOT set, keeping default builds and CI CGO-free.
// The real backend lives in gocv.go (tagged 'gocv').

var gocvBuilt = false

// NewGoCVBackend refuses construction without the 'gocv' build tag so that
// production binaries never fake hardware access.
func NewGoCVBackend() (Backend, error) {
	return nil, errors.New("gocv backend not built; rebuild with -tags=gocv")
}
