package browser

import (
	"sort"
	"strings"
)

const uriPrefix = "query:Audio%20Effects#Ableton#"

// deviceURIs is the built-in table of stock devices. Keys are matched
// byte-exact; anything else resolves through the fallback template.
var deviceURIs = map[string]string{
	"EQ Eight":   "query:Audio%20Effects#Ableton#EQ%20Eight",
	"Compressor": "query:Audio%20Effects#Ableton#Compressor",
	"Reverb":     "query:Audio%20Effects#Ableton#Reverb",
	"Delay":      "query:Audio%20Effects#Ableton#Delay",
}

// ResolveDeviceURI maps a device name to the browser item URI consumed by the
// load_browser_item command. Unknown names resolve to the query template with
// spaces percent-encoded. Resolution never fails for non-empty input.
func ResolveDeviceURI(deviceName string) string {
	if uri, ok := deviceURIs[deviceName]; ok {
		return uri
	}
	return uriPrefix + strings.ReplaceAll(deviceName, " ", "%20")
}

// Device pairs a known device name with its browser item URI.
type Device struct {
	Name string
	URI  string
}

// Devices returns the built-in device table sorted by name.
func Devices() []Device {
	out := make([]Device, 0, len(deviceURIs))
	for name, uri := range deviceURIs {
		out = append(out, Device{Name: name, URI: uri})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsKnownDevice reports whether the name hits the built-in table.
func IsKnownDevice(deviceName string) bool {
	_, ok := deviceURIs[deviceName]
	return ok
}
