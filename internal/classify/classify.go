// Package classify derives a coarse device category from a capture device's
// display name and identifier. Classification is heuristic, pure, and
// deterministic: an immutable ordered table of keyword sets is checked in
// priority order and the first match wins.
package classify

import (
	"strings"

	"camerad/pkg/types"
)

// rule binds one category to the keywords that imply it.
type rule struct {
	category types.DeviceCategory
	keywords []string
}

// rules is checked top to bottom; priority matters. A name containing both a
// screen-capture and a virtual-camera keyword classifies as screen-capture.
var rules = []rule{
	{types.CategoryScreenCapture, []string{
		"screen capture", "screencapture", "display capture", "screen record",
		"desktop", "capture screen",
	}},
	{types.CategoryStreaming, []string{
		"obs", "streamlabs", "xsplit", "wirecast", "vmix", "mmhmm",
		"restream", "prism live",
	}},
	{types.CategoryVirtual, []string{
		"virtual", "snap camera", "camtwist", "manycam", "epoccam",
		"camo", "iriun", "droidcam", "ndi",
	}},
	{types.CategoryPhysical, []string{
		"facetime", "built-in", "builtin", "integrated", "usb", "webcam",
		"logitech", "elgato", "razer", "brio", "studio display",
	}},
}

// Classify maps a device's name and identifier to a category. No match
// yields CategoryUnknown.
func Classify(name, uid string) types.DeviceCategory {
	haystack := strings.ToLower(name + " " + uid)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(haystack, kw) {
				return r.category
			}
		}
	}
	return types.CategoryUnknown
}

// advisories holds the fixed caution message per non-physical category.
var advisories = map[types.DeviceCategory]string{
	types.CategoryVirtual:       "Virtual camera detected; frames originate from software, not a sensor.",
	types.CategoryStreaming:     "Streaming-software camera detected; output depends on the streaming app running.",
	types.CategoryScreenCapture: "Screen-capture device detected; the preview may mirror your own display.",
	types.CategoryUnknown:       "Unrecognized camera type; behavior may be unreliable.",
}

// AdvisoryWarning returns the caution message for a category, or "" for
// physical devices.
func AdvisoryWarning(c types.DeviceCategory) string {
	return advisories[c]
}
