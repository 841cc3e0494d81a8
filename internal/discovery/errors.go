package discovery

// notAuthorizedError signals camera access was denied or restricted.
type notAuthorizedError struct{ status string }

func (e notAuthorizedError) Error() string { return "camera access " + e.status }

// ErrNotAuthorized constructs a notAuthorizedError for an auth status.
func ErrNotAuthorized(status string) error { return notAuthorizedError{status: status} }

// IsNotAuthorized reports whether err indicates missing camera authorization.
func IsNotAuthorized(err error) bool {
	_, ok := err.(notAuthorizedError)
	return ok
}

// noCamerasError signals an empty enumeration or that every enumerated
// device failed its health check.
type noCamerasError struct{}

func (noCamerasError) Error() string { return "no cameras available" }

// ErrNoCamerasAvailable is returned when discovery finds nothing usable.
func ErrNoCamerasAvailable() error { return noCamerasError{} }

// IsNoCamerasAvailable reports whether err indicates no usable devices.
func IsNoCamerasAvailable(err error) bool {
	_, ok := err.(noCamerasError)
	return ok
}
