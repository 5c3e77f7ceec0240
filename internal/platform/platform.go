// Package platform identifies the operating system and processor
// architecture chakra runs on, and the layout differences that follow from
// them (such as where a virtual environment keeps its executables).
package platform

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/shinji-kodama/chakra/internal/model"
)

// OS is a supported operating system.
type OS string

const (
	Windows OS = "windows"
	Linux   OS = "linux"
	MacOS   OS = "darwin"
)

// Arch is a supported processor architecture class.
type Arch string

const (
	X86   Arch = "x86"
	AMD64 Arch = "x86_64"
	ARM64 Arch = "arm64"
)

// archAliases lists the names each architecture class is reported under by
// uname -m, PROCESSOR_ARCHITECTURE and GOARCH.
var archAliases = map[Arch][]string{
	X86:   {"x86", "i386", "i586", "i686", "386"},
	AMD64: {"x86_64", "amd64"},
	ARM64: {"arm64", "aarch64"},
}

// Platform is an operating system and architecture pair.
type Platform struct {
	OS   OS   `json:"os" yaml:"os"`
	Arch Arch `json:"arch" yaml:"arch"`
}

// String returns "os/arch".
func (p Platform) String() string {
	return string(p.OS) + "/" + string(p.Arch)
}

// ParseOS maps an operating system name (as reported by uname -s, os.name
// or GOOS) to an OS. The match is case-insensitive and "nt" is accepted for
// Windows.
func ParseOS(name string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "windows", "nt":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "darwin":
		return MacOS, nil
	default:
		return "", fmt.Errorf("operating system %q: %w", name, model.ErrNotSupported)
	}
}

// ParseArch maps an architecture name to its class.
func ParseArch(name string) (Arch, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, arch := range []Arch{X86, AMD64, ARM64} {
		if slices.Contains(archAliases[arch], n) {
			return arch, nil
		}
	}
	return "", fmt.Errorf("architecture %q: %w", name, model.ErrNotSupported)
}

// Detect returns the platform of the running process.
func Detect() (Platform, error) {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) (Platform, error) {
	o, err := ParseOS(goos)
	if err != nil {
		return Platform{}, err
	}
	arch, err := ParseArch(goarch)
	if err != nil {
		return Platform{}, err
	}
	return Platform{OS: o, Arch: arch}, nil
}

// ScriptsDir returns the name of the directory holding a virtual
// environment's executables: "Scripts" on Windows, "bin" elsewhere.
func (o OS) ScriptsDir() string {
	if o == Windows {
		return "Scripts"
	}
	return "bin"
}

// ExeSuffix returns ".exe" on Windows and "" elsewhere.
func (o OS) ExeSuffix() string {
	if o == Windows {
		return ".exe"
	}
	return ""
}

// PathListSeparator returns the PATH separator for the operating system.
func (o OS) PathListSeparator() string {
	if o == Windows {
		return ";"
	}
	return ":"
}

// Current returns the operating system of the running process, falling back
// to Linux conventions for systems chakra does not recognise.
func Current() OS {
	o, err := ParseOS(runtime.GOOS)
	if err != nil {
		return Linux
	}
	return o
}
