// Package cmd holds build identity stamped by the release pipeline:
//
//	go build -ldflags "-X github.com/shareful-ai/shareful/cmd.Version=..."
package cmd

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
