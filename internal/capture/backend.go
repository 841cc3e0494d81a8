// Package capture defines the narrow contract this daemon consumes from a
// platform capture stack: authorization, device enumeration, device handles,
// and capture sessions. The core never talks to hardware directly; it goes
// through a Backend so the simulated implementation can stand in everywhere
// a real one is unavailable.
package capture

import "context"

// AuthStatus mirrors the platform's camera authorization states.
type AuthStatus string

const (
	AuthNotDetermined AuthStatus = "not-determined"
	AuthAuthorized    AuthStatus = "authorized"
	AuthDenied        AuthStatus = "denied"
	AuthRestricted    AuthStatus = "restricted"
)

// Preset is a capture quality preset, richest first in PresetOrder.
type Preset string

const (
	PresetHigh   Preset = "high"
	PresetMedium Preset = "medium"
	PresetLow    Preset = "low"
)

// PresetOrder is the preference order used when configuring a session.
var PresetOrder = []Preset{PresetHigh, PresetMedium, PresetLow}

// Format describes one supported capture format of a device.
type Format struct {
	Width     int
	Height    int
	FrameRate float64
}

// Device is a non-owning handle to one video-capture source. The handle is
// externally shared: any process on the host may be using the same camera,
// so configuration changes must be bracketed by Lock/Unlock.
type Device interface {
	// UID returns the backend-assigned stable identifier.
	UID() string
	// Name returns the display name.
	Name() string
	// Connected reports whether the device is currently attached.
	Connected() bool
	// Suspended reports whether the device is suspended (e.g. lid closed).
	Suspended() bool
	// HasVideo reports whether the device exposes a video media type.
	HasVideo() bool
	// Formats returns the supported format list.
	Formats() []Format
	// Lock acquires the device configuration lock. It fails when another
	// process holds the lock; treat that as "device busy", not fatal.
	Lock() error
	// Unlock releases the configuration lock. Safe to call when not held.
	Unlock()
}

// Session is one live capture pipeline bound to a single device.
type Session interface {
	// AddInput attaches the device as the session's input. Fails when the
	// session cannot accept the input.
	AddInput(d Device) error
	// CanSetPreset reports whether the session supports the preset.
	CanSetPreset(p Preset) bool
	// SetPreset applies a preset previously accepted by CanSetPreset.
	SetPreset(p Preset)
	// BindSurface attaches a preview surface to the session.
	BindSurface(s Surface)
	// Start begins capture. May fail transiently; callers retry.
	Start() error
	// Stop ends capture. Idempotent.
	Stop() error
	// Running reports whether capture is active.
	Running() bool
}

// Surface is the preview area a session renders into. The daemon models it
// as an opaque sink with a blanked flag driven by session failures.
type Surface interface {
	// SetBlanked blanks or unblanks the preview area.
	SetBlanked(blanked bool)
}

// Backend is the platform capture stack.
type Backend interface {
	// AuthorizationStatus returns the current camera authorization state.
	AuthorizationStatus() AuthStatus
	// RequestAccess asks the user for camera access. It blocks until the
	// platform delivers its grant callback or ctx is done.
	RequestAccess(ctx context.Context) (bool, error)
	// Devices enumerates video-capture devices across the backend's
	// candidate device-type filters, in stable order.
	Devices(ctx context.Context) ([]Device, error)
	// NewSession constructs an unstarted capture session for a device.
	NewSession(d Device) (Session, error)
}
