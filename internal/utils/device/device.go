// File: internal/utils/device/device.go
package device

import (
	"fmt"

	"github.com/mssola/user_agent"
)

// Info is the human-readable description of a client derived from its
// User-Agent header, used in session listings and new-session alerts.
type Info struct {
	Device  string
	Browser string
}

// Parse extracts device and browser labels from a raw User-Agent value.
// Unknown or empty input yields "Unknown device"/"Unknown browser" rather
// than an error.
func Parse(rawUA string) Info {
	info := Info{Device: "Unknown device", Browser: "Unknown browser"}
	if rawUA == "" {
		return info
	}

	ua := user_agent.New(rawUA)

	if osInfo := ua.OSInfo(); osInfo.Name != "" {
		if ua.Mobile() {
			info.Device = fmt.Sprintf("Mobile (%s)", osInfo.Name)
		} else {
			info.Device = osInfo.Name
		}
	}

	if name, version := ua.Browser(); name != "" {
		if version != "" {
			info.Browser = fmt.Sprintf("%s %s", name, version)
		} else {
			info.Browser = name
		}
	}
	return info
}
