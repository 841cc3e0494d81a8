package types

// DeviceCategory is a coarse classification of a capture device derived from
// its display name and identifier. It is recomputed on demand, never stored
// authoritatively.
type DeviceCategory string

const (
	CategoryPhysical      DeviceCategory = "physical"
	CategoryVirtual       DeviceCategory = "virtual"
	CategoryStreaming     DeviceCategory = "streaming"
	CategoryScreenCapture DeviceCategory = "screen-capture"
	CategoryUnknown       DeviceCategory = "unknown"
)

// Device describes one discoverable video-capture device.
type Device struct {
	// Stable unique identifier assigned by the capture backend.
	// example: 0x8020000005ac8514
	UID string `json:"uid" example:"0x8020000005ac8514"`
	// Human-friendly display name.
	// example: FaceTime HD Camera
	Name string `json:"name" example:"FaceTime HD Camera"`
	// Coarse category derived from the name/identifier.
	// example: physical
	Category DeviceCategory `json:"category" example:"physical"`
	// Advisory caution message for non-physical categories; empty for physical.
	Warning string `json:"warning,omitempty"`
	// Number of formats the device reported at discovery time.
	// example: 12
	FormatCount int `json:"format_count" example:"12"`
}

// HealthVerdict is a pre-flight pass/fail on whether a device is usable.
type HealthVerdict struct {
	// True when the device passed every health probe.
	// example: true
	Healthy bool `json:"healthy" example:"true"`
	// Human-readable reason when unhealthy; empty otherwise.
	// example: not connected
	Reason string `json:"reason,omitempty" example:"not connected"`
}

// HealthyVerdict constructs a passing verdict.
func HealthyVerdict() HealthVerdict { return HealthVerdict{Healthy: true} }

// UnhealthyVerdict constructs a failing verdict with a reason.
func UnhealthyVerdict(reason string) HealthVerdict {
	return HealthVerdict{Healthy: false, Reason: reason}
}
