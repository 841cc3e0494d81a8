package discovery

import (
	"camerad/internal/capture"
	"camerad/pkg/types"
)

// CheckHealth runs the pre-flight probes on a device and returns a verdict.
// Checks run in a fixed order and the first failure wins. The configuration
// lock acquired by the probe is released immediately; a passing check leaves
// no side effects on the device.
func CheckHealth(d capture.Device, category types.DeviceCategory) types.HealthVerdict {
	if !d.Connected() {
		return types.UnhealthyVerdict("not connected")
	}
	if d.Suspended() {
		return types.UnhealthyVerdict("suspended")
	}
	if err := d.Lock(); err != nil {
		return types.UnhealthyVerdict("in use")
	}
	d.Unlock()
	// Physical devices get the benefit of the doubt on capability reporting;
	// everything else must prove it can actually produce video.
	if category != types.CategoryPhysical {
		if !d.HasVideo() {
			return types.UnhealthyVerdict("no video capability")
		}
		if len(d.Formats()) == 0 {
			return types.UnhealthyVerdict("no supported formats")
		}
	}
	return types.HealthyVerdict()
}
