// Package version exposes build metadata injected with -ldflags, falling
// back to the VCS settings recorded by the Go toolchain.
//
//	go build -ldflags "-X github.com/kbukum/asrgateway/version.Version=1.2.0"
package version
