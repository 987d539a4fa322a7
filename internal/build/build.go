// Package build holds build-time information about the bob binary.
package build

// Version is the application version, overridable via linker flags:
//
//	-ldflags "-X go.trai.ch/bob/internal/build.Version=v1.2.3"
var Version = "dev"
