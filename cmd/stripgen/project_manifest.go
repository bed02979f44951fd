package main

import (
	"fmt"
	"os"

	"stripgen/internal/project"
)

// loadProjectManifest finds stripgen.toml upward from dir. Without one the
// built-in defaults are returned with ok == false.
func loadProjectManifest(dir string) (*project.Manifest, bool, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, false, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	manifest, ok, err := project.LoadNearest(dir)
	if err != nil {
		return nil, ok, err
	}
	if !ok {
		return project.Default(), false, nil
	}
	return manifest, true, nil
}
