package config

import (
	"slices"
)

//go:generate go tool go-enum --marshal --names -f $GOFILE

// Predefined set of source file types to process.
// ENUM(all, preprocessors, postprocessed)
type SourceSet int

// Extensions returns lowercase file extensions (with dot) of the set.
func (s SourceSet) Extensions() []string {
	preprocessors := []string{".pug", ".scss", ".sass"}
	postprocessed := []string{".html", ".htm", ".php", ".css"}
	switch s {
	case SourceSetPreprocessors:
		return preprocessors
	case SourceSetPostprocessed:
		return postprocessed
	default:
		return slices.Concat(preprocessors, postprocessed)
	}
}

// Serialization of the sidecar artifact.
// ENUM(json, yaml)
type SidecarFormat int
