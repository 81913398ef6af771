// Package platform resolves configuration values that may differ per host
// platform to the single value that applies on this machine.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is the closed set of host platforms a descriptor can condition
// values on. The ordinals match the positional vector form.
type Platform int

const (
	Linux Platform = iota
	Mac
	BSD
	Other
)

// Current is the platform this binary was compiled for.
var Current = FromGOOS(runtime.GOOS)

// All lists every platform in ordinal order.
var All = []Platform{Linux, Mac, BSD, Other}

// FromGOOS maps a Go GOOS value to a Platform.
func FromGOOS(goos string) Platform {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Mac
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return BSD
	default:
		return Other
	}
}

func (p Platform) String() string {
	switch p {
	case Linux:
		return "linux"
	case Mac:
		return "mac"
	case BSD:
		return "bsd"
	default:
		return "other"
	}
}

// Parse accepts the names used as mapping keys in a descriptor.
func Parse(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return Linux, nil
	case "mac", "darwin", "macos":
		return Mac, nil
	case "bsd":
		return BSD, nil
	case "other":
		return Other, nil
	}
	return Other, fmt.Errorf("unknown platform %q (valid: linux, mac, bsd, other)", s)
}
