//go:build gocv

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// gocvBuilt indicates this binary was compiled with real capture support.
var gocvBuilt = true

// maxProbeIndex bounds sequential index probing during enumeration.
const maxProbeIndex = 5

// GoCVBackend enumerates cameras by probing OpenCV device indices. The
// platform exposes no authorization API at this layer, so the backend always
// reports authorized and lets the OS surface its own prompt on first open.
type GoCVBackend struct {
	mu sync.Mutex
}

func NewGoCVBackend() (Backend, error) {
	return &GoCVBackend{}, nil
}

func (b *GoCVBackend) AuthorizationStatus() AuthStatus { return AuthAuthorized }

func (b *GoCVBackend) RequestAccess(ctx context.Context) (bool, error) { return true, nil }

func (b *GoCVBackend) Devices(ctx context.Context) ([]Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var devices []Device
	for i := 0; i < maxProbeIndex; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		cap, err := gocv.OpenVideoCapture(i)
		if err != nil {
			continue
		}
		opened := cap.IsOpened()
		w := int(cap.Get(gocv.VideoCaptureFrameWidth))
		h := int(cap.Get(gocv.VideoCaptureFrameHeight))
		fps := cap.Get(gocv.VideoCaptureFPS)
		_ = cap.Close()
		if !opened {
			continue
		}
		name := fmt.Sprintf("Camera %d", i)
		if i == 0 {
			name = "Built-in Camera"
		}
		devices = append(devices, &gocvDevice{
			index: i,
			name:  name,
			formats: []Format{
				{Width: w, Height: h, FrameRate: fps},
			},
		})
	}
	return devices, nil
}

func (b *GoCVBackend) NewSession(d Device) (Session, error) {
	gd, ok := d.(*gocvDevice)
	if !ok {
		return nil, errors.New("gocv backend: foreign device handle")
	}
	return &gocvSession{dev: gd}, nil
}

type gocvDevice struct {
	mu      sync.Mutex
	index   int
	name    string
	formats []Format
	locked  bool
}

func (d *gocvDevice) UID() string  { return fmt.Sprintf("gocv:%d", d.index) }
func (d *gocvDevice) Name() string { return d.name }

// Connected re-probes the index; a device that cannot be opened is treated
// as unplugged.
func (d *gocvDevice) Connected() bool {
	cap, err := gocv.OpenVideoCapture(d.index)
	if err != nil {
		return false
	}
	opened := cap.IsOpened()
	_ = cap.Close()
	return opened
}

func (d *gocvDevice) Suspended() bool { return false }
func (d *gocvDevice) HasVideo() bool  { return true }

func (d *gocvDevice) Formats() []Format {
	out := make([]Format, len(d.formats))
	copy(out, d.formats)
	return out
}

// Lock approximates the platform configuration lock with a probe open: if
// another process holds the camera exclusively, the open fails.
func (d *gocvDevice) Lock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cap, err := gocv.OpenVideoCapture(d.index)
	if err != nil {
		return fmt.Errorf("camera %d busy: %w", d.index, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return fmt.Errorf("camera %d busy", d.index)
	}
	_ = cap.Close()
	d.locked = true
	return nil
}

func (d *gocvDevice) Unlock() {
	d.mu.Lock()
	d.locked = false
	d.mu.Unlock()
}

type gocvSession struct {
	mu      sync.Mutex
	dev     *gocvDevice
	cap     *gocv.VideoCapture
	preset  Preset
	surface Surface
}

func (s *gocvSession) AddInput(d Device) error {
	gd, ok := d.(*gocvDevice)
	if !ok {
		return errors.New("gocv session: foreign device handle")
	}
	s.mu.Lock()
	s.dev = gd
	s.mu.Unlock()
	return nil
}

func (s *gocvSession) CanSetPreset(p Preset) bool { return true }

func (s *gocvSession) SetPreset(p Preset) {
	s.mu.Lock()
	s.preset = p
	s.mu.Unlock()
}

func (s *gocvSession) BindSurface(sf Surface) {
	s.mu.Lock()
	s.surface = sf
	s.mu.Unlock()
}

func (s *gocvSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cap != nil {
		return nil
	}
	cap, err := gocv.OpenVideoCapture(s.dev.index)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", s.dev.index, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return fmt.Errorf("camera %d not open", s.dev.index)
	}
	switch s.preset {
	case PresetHigh:
		cap.Set(gocv.VideoCaptureFrameWidth, 1920)
		cap.Set(gocv.VideoCaptureFrameHeight, 1080)
	case PresetMedium:
		cap.Set(gocv.VideoCaptureFrameWidth, 1280)
		cap.Set(gocv.VideoCaptureFrameHeight, 720)
	case PresetLow:
		cap.Set(gocv.VideoCaptureFrameWidth, 640)
		cap.Set(gocv.VideoCaptureFrameHeight, 480)
	}
	s.cap = cap
	return nil
}

func (s *gocvSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cap == nil {
		return nil
	}
	err := s.cap.Close()
	s.cap = nil
	return err
}

func (s *gocvSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cap != nil && s.cap.IsOpened()
}
