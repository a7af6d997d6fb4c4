package device

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
)

// Information about a compute platform and its devices.
type PlatformInfo struct {
	Profile    string
	Version    string
	Name       string
	Vendor     string
	Extensions string
	Devices    []*Device
}

func (pl PlatformInfo) String() string {
	var buf bytes.Buffer

	buf.WriteString(
		fmt.Sprintf(
			"Version:    %s\nName:       %s\nVendor:     %s\nExtensions: %s\nDevices:\n",
			pl.Version,
			pl.Name,
			pl.Vendor,
			pl.Extensions,
		),
	)

	for dIdx, d := range pl.Devices {
		buf.WriteString(fmt.Sprintf("  Device %02d:\n", dIdx))
		buf.WriteString(indentRegex.ReplaceAllString(d.String(), "    "))
		buf.WriteString("\n\n")
	}

	return buf.String()
}

// Get information about the available platforms and devices. The software
// platform exposes a single CPU device with one compute unit per logical CPU.
// Each call returns fresh, uninitialized device instances.
func GetPlatformInfo() ([]PlatformInfo, error) {
	cpu := NewDevice(
		fmt.Sprintf("Go CPU device (%s/%s)", runtime.GOOS, runtime.GOARCH),
		CpuDevice,
		runtime.NumCPU(),
	)

	return []PlatformInfo{
		{
			Profile:    "FULL_PROFILE",
			Version:    runtime.Version(),
			Name:       "Software compute platform",
			Vendor:     "go-spheretrace",
			Extensions: "device_memory_arena",
			Devices:    []*Device{cpu},
		},
	}, nil
}

// Scan all available platforms and select devices that match the given query.
func SelectDevices(typeMask DeviceType, matchName string) (DeviceList, error) {
	platforms, err := GetPlatformInfo()
	if err != nil {
		return nil, err
	}
	list := make(DeviceList, 0)
	for _, p := range platforms {
		for _, d := range p.Devices {
			// Match type
			if d.Type&typeMask != d.Type {
				continue
			}

			// Match name
			if matchName != "" && !strings.Contains(d.Name, matchName) {
				continue
			}

			d.Id = len(list)
			list = append(list, d)
		}
	}
	return list, nil
}
