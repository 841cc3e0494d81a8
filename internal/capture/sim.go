package capture

import (
	"context"
	"errors"
	"sync"
)

// SimBackend is an in-memory Backend with scriptable failures. It is the
// default backend for development and the only one exercised by tests.
type SimBackend struct {
	mu      sync.Mutex
	auth    AuthStatus
	grant   bool // outcome of RequestAccess when auth is not-determined
	devices []*SimDevice
}

// NewSimBackend returns an authorized backend exposing the given devices.
func NewSimBackend(devices ...*SimDevice) *SimBackend {
	return &SimBackend{auth: AuthAuthorized, grant: true, devices: devices}
}

// SetAuthorization overrides the authorization state.
func (b *SimBackend) SetAuthorization(s AuthStatus) {
	b.mu.Lock()
	b.auth = s
	b.mu.Unlock()
}

// SetGrant controls whether a pending RequestAccess will be granted.
func (b *SimBackend) SetGrant(grant bool) {
	b.mu.Lock()
	b.grant = grant
	b.mu.Unlock()
}

// SetDevices replaces the device list wholesale.
func (b *SimBackend) SetDevices(devices ...*SimDevice) {
	b.mu.Lock()
	b.devices = devices
	b.mu.Unlock()
}

func (b *SimBackend) AuthorizationStatus() AuthStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auth
}

func (b *SimBackend) RequestAccess(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.grant {
		b.auth = AuthAuthorized
	} else {
		b.auth = AuthDenied
	}
	return b.grant, nil
}

func (b *SimBackend) Devices(ctx context.Context) ([]Device, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Device, len(b.devices))
	for i, d := range b.devices {
		out[i] = d
	}
	return out, nil
}

func (b *SimBackend) NewSession(d Device) (Session, error) {
	sd, ok := d.(*SimDevice)
	if !ok {
		return nil, errors.New("sim backend: foreign device handle")
	}
	return &simSession{dev: sd}, nil
}

// SimDevice is a scriptable device handle.
type SimDevice struct {
	mu sync.Mutex

	DeviceUID  string
	DeviceName string

	Disconnected  bool // Connected() returns !Disconnected
	IsSuspended   bool
	NoVideo       bool
	FormatList    []Format
	LockHeld      bool // an external process holds the configuration lock
	StartFailures int  // number of Start calls that fail before success
	AddInputErr   bool // session refuses the device as input
	StopErr       bool // Stop reports an error (capture still halts)
	Presets       []Preset

	lockedByUs bool
	startCalls int
	stopCalls  int
}

// NewSimDevice returns a healthy physical-looking device with two formats
// and every preset.
func NewSimDevice(uid, name string) *SimDevice {
	return &SimDevice{
		DeviceUID:  uid,
		DeviceName: name,
		FormatList: []Format{
			{Width: 1920, Height: 1080, FrameRate: 30},
			{Width: 1280, Height: 720, FrameRate: 30},
		},
		Presets: []Preset{PresetHigh, PresetMedium, PresetLow},
	}
}

func (d *SimDevice) UID() string  { return d.DeviceUID }
func (d *SimDevice) Name() string { return d.DeviceName }

func (d *SimDevice) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.Disconnected
}

func (d *SimDevice) Suspended() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.IsSuspended
}

func (d *SimDevice) HasVideo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.NoVideo
}

func (d *SimDevice) Formats() []Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Format, len(d.FormatList))
	copy(out, d.FormatList)
	return out
}

func (d *SimDevice) Lock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.LockHeld {
		return errors.New("configuration lock held by another process")
	}
	d.lockedByUs = true
	return nil
}

func (d *SimDevice) Unlock() {
	d.mu.Lock()
	d.lockedByUs = false
	d.mu.Unlock()
}

// Disconnect flips the device to disconnected, as if unplugged.
func (d *SimDevice) Disconnect() {
	d.mu.Lock()
	d.Disconnected = true
	d.mu.Unlock()
}

// StartCalls reports how many Start attempts sessions made on this device.
func (d *SimDevice) StartCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startCalls
}

// StopCalls reports how many Stop calls sessions made on this device.
func (d *SimDevice) StopCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopCalls
}

type simSession struct {
	mu      sync.Mutex
	dev     *SimDevice
	input   *SimDevice
	preset  Preset
	surface Surface
	running bool
}

func (s *simSession) AddInput(d Device) error {
	sd, ok := d.(*SimDevice)
	if !ok {
		return errors.New("sim session: foreign device handle")
	}
	sd.mu.Lock()
	refuse := sd.AddInputErr
	sd.mu.Unlock()
	if refuse {
		return errors.New("session cannot accept device input")
	}
	s.mu.Lock()
	s.input = sd
	s.mu.Unlock()
	return nil
}

func (s *simSession) CanSetPreset(p Preset) bool {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()
	for _, sp := range s.dev.Presets {
		if sp == p {
			return true
		}
	}
	return false
}

func (s *simSession) SetPreset(p Preset) {
	s.mu.Lock()
	s.preset = p
	s.mu.Unlock()
}

func (s *simSession) BindSurface(sf Surface) {
	s.mu.Lock()
	s.surface = sf
	s.mu.Unlock()
}

func (s *simSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.input == nil {
		return errors.New("no input attached")
	}
	s.dev.mu.Lock()
	s.dev.startCalls++
	fail := s.dev.StartFailures > 0
	if fail {
		s.dev.StartFailures--
	}
	disconnected := s.dev.Disconnected
	s.dev.mu.Unlock()
	if disconnected {
		return errors.New("device disconnected")
	}
	if fail {
		return errors.New("session start failed")
	}
	s.running = true
	return nil
}

func (s *simSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev.mu.Lock()
	s.dev.stopCalls++
	stopErr := s.dev.StopErr
	s.dev.mu.Unlock()
	s.running = false
	if stopErr {
		return errors.New("session stop failed")
	}
	return nil
}

func (s *simSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
