package manager

import "camerad/pkg/types"

// deviceNotFoundError signals a UID absent from the published device list.
type deviceNotFoundError struct{ uid string }

func (e deviceNotFoundError) Error() string { return "device not found: " + e.uid }

// ErrDeviceNotFound constructs a deviceNotFoundError.
func ErrDeviceNotFound(uid string) error { return deviceNotFoundError{uid: uid} }

// IsDeviceNotFound reports whether err indicates an unknown device UID.
func IsDeviceNotFound(err error) bool {
	_, ok := err.(deviceNotFoundError)
	return ok
}

// windowNotFoundError signals an unknown window ID.
type windowNotFoundError struct{ id string }

func (e windowNotFoundError) Error() string { return "window not found: " + e.id }

// ErrWindowNotFound constructs a windowNotFoundError.
func ErrWindowNotFound(id string) error { return windowNotFoundError{id: id} }

// IsWindowNotFound reports whether err indicates an unknown window ID.
func IsWindowNotFound(err error) bool {
	_, ok := err.(windowNotFoundError)
	return ok
}

// configurationFailedError signals that a device configuration-lock probe
// failed during selection, so the selection set was left unchanged.
type configurationFailedError struct {
	uid string
	msg string
}

func (e configurationFailedError) Error() string {
	return "configuration failed for " + e.uid + ": " + e.msg
}

// ErrConfigurationFailed constructs a configurationFailedError.
func ErrConfigurationFailed(uid, msg string) error {
	return configurationFailedError{uid: uid, msg: msg}
}

// IsConfigurationFailed reports whether err indicates a failed lock probe.
func IsConfigurationFailed(err error) bool {
	_, ok := err.(configurationFailedError)
	return ok
}

// cameraInUseError signals a device held exclusively by another process.
type cameraInUseError struct{ uid string }

func (e cameraInUseError) Error() string { return "camera in use: " + e.uid }

// ErrCameraInUse constructs a cameraInUseError.
func ErrCameraInUse(uid string) error { return cameraInUseError{uid: uid} }

// IsCameraInUse reports whether err indicates a busy device.
func IsCameraInUse(err error) bool {
	_, ok := err.(cameraInUseError)
	return ok
}

// sessionStartFailedError carries the category-specialized terminal message
// produced when a session exhausts its start retries.
type sessionStartFailedError struct {
	uid      string
	category types.DeviceCategory
	msg      string
}

func (e sessionStartFailedError) Error() string { return e.msg }

// ErrSessionStartFailed constructs a sessionStartFailedError.
func ErrSessionStartFailed(uid string, category types.DeviceCategory, msg string) error {
	return sessionStartFailedError{uid: uid, category: category, msg: msg}
}

// IsSessionStartFailed reports whether err is a terminal start failure.
func IsSessionStartFailed(err error) bool {
	_, ok := err.(sessionStartFailedError)
	return ok
}
