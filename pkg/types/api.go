package types

// DevicesResponse wraps the published device list returned by GET /devices.
type DevicesResponse struct {
	// Devices that survived the last discovery pass, in enumeration order.
	Devices []Device `json:"devices"`
}

// SelectionResponse is returned by GET /selection and POST /devices/{uid}/toggle.
type SelectionResponse struct {
	// UIDs of currently selected devices.
	// example: ["0x8020000005ac8514"]
	Selected []string `json:"selected"`
}

// WindowStatus summarizes one camera window and its capture session for
// /windows and /status.
type WindowStatus struct {
	// Window identifier.
	// example: 2f1c9a6e-9f2d-4a43-9b5f-0d8f0e3f5a1b
	ID string `json:"id" example:"2f1c9a6e-9f2d-4a43-9b5f-0d8f0e3f5a1b"`
	// UID of the device this window previews.
	// example: 0x8020000005ac8514
	DeviceUID string `json:"device_uid" example:"0x8020000005ac8514"`
	// Display name of the device.
	// example: FaceTime HD Camera
	DeviceName string `json:"device_name" example:"FaceTime HD Camera"`
	// Classified category of the device.
	// example: physical
	Category DeviceCategory `json:"category" example:"physical"`
	// Advisory banner text, if any.
	Warning string `json:"warning,omitempty"`
	// Current session lifecycle state (created, configuring, starting,
	// retrying, running, failed, stopped).
	// example: running
	State string `json:"state" example:"running"`
	// Quality preset the session settled on.
	// example: high
	Preset string `json:"preset,omitempty" example:"high"`
	// Number of start retries performed so far.
	// example: 0
	Attempts int `json:"attempts" example:"0"`
	// Terminal error message when state is failed.
	Error string `json:"error,omitempty"`
	// Window open time in unix seconds.
	// example: 1700000000
	OpenedAt int64 `json:"opened_at_unix" example:"1700000000"`
}

// WindowsResponse wraps the open window list.
type WindowsResponse struct {
	Windows []WindowStatus `json:"windows"`
}

// WindowLogResponse carries the rolling log of one window.
type WindowLogResponse struct {
	// Window identifier.
	ID string `json:"id"`
	// Log lines, oldest first; never more than the configured cap.
	Lines []string `json:"lines"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Authorization state reported by the capture backend
	// (not-determined, authorized, denied, restricted).
	// example: authorized
	Authorization string `json:"authorization" example:"authorized"`
	// Single human-readable banner error from the last discovery or
	// selection failure; empty when the last pass succeeded.
	Error string `json:"error,omitempty"`
	// Published devices from the last successful discovery.
	Devices []Device `json:"devices"`
	// UIDs of currently selected devices.
	Selected []string `json:"selected"`
	// Open camera windows and their session states.
	Windows []WindowStatus `json:"windows"`
	// Total discovery passes attempted since start.
	// example: 3
	DiscoveriesTotal uint64 `json:"discoveries_total" example:"3"`
	// Devices dropped by health checks across all passes.
	// example: 1
	DroppedTotal uint64 `json:"dropped_total" example:"1"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: no cameras available
	Error string `json:"error" example:"no cameras available"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
