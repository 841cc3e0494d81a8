// Package manager coordinates device discovery, user selection, and the
// capture-session lifecycle behind the HTTP API. It is structured into small
// files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (SessionState, Session, Window, surface).
//   - errors.go: error types and helpers (IsConfigurationFailed, IsDeviceNotFound, ...).
//   - logbuf.go: the bounded rolling log attached to each window.
//   - discover.go: the discovery entry point and default selection.
//   - selection.go: selection-set toggling with the lock/unlock probe.
//   - session.go: session configure/start/retry/stop state machine.
//   - windows.go: window bookkeeping ("show cameras", close, close-all).
//   - status.go: Status reporting for /status.
//   - events.go: lifecycle events and the EventPublisher contract.
//   - metrics.go: Prometheus collectors owned by this package.
//
// The capture backend is injected (see internal/capture): the simulated
// backend serves default builds and tests; real capture requires the 'gocv'
// build tag.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New/NewWithConfig, Discover, Toggle, OpenWindows,
// CloseWindow, Status). Internal types are subject to change.
package manager
