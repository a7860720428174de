// Package version holds the release version, set at build time with
// -ldflags "-X github.com/unowned-ai/memos/pkg/version.Version=...".
package version

var Version = "0.1.0"
