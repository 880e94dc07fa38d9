// Package version carries the build version of hydrakit binaries and the
// User-Agent string the client sends.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/hydrakit/version.Version=1.2.0"
package version
