// Package lib provides the Unity-package-to-UPM conversion API for embedding.
// This package re-exports the functionality from the core package.
package lib

import (
	"upmconv/pkg/core"
	"upmconv/pkg/progress"
)

// ManifestName re-exported from core
const ManifestName = core.ManifestName

// Types re-exported from core
type (
	LogicalEntry = core.LogicalEntry
	Manifest     = core.Manifest
	Options      = core.Options
	Warning      = core.Warning
)

// InitProgress initializes the progress tracking system
func InitProgress() {
	progress.Init(0)
}

// StopProgress stops the progress tracking system
func StopProgress() {
	progress.Stop()
}

// Convert is a wrapper around core.ConvertFile with default options
func Convert(srcPath, manifestPath, outPath string) ([]Warning, error) {
	return core.ConvertFile(srcPath, manifestPath, outPath, core.Options{})
}
