package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"stripgen/internal/project"
)

// ErrNoInputs is returned when no path was given.
var ErrNoInputs = errors.New("no input paths")

// target is one input file and the path its output goes to.
type target struct {
	in  string
	out string
}

// matchAny checks patterns against the slash-separated path relative to the
// walked root and against the base name, so both "ObjectFactory.java" and
// "**/jaxb/*.java" work.
func matchAny(patterns []string, rel string) bool {
	base := filepath.Base(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// selected applies include (empty means everything) and exclude to rel.
func selected(include, exclude []string, rel string) bool {
	if len(include) > 0 && !matchAny(include, rel) {
		return false
	}
	return !matchAny(exclude, rel)
}

// collectTargets expands paths into a sorted, deduplicated list of targets.
// Files are taken as-is, directories are walked for Include matches.
func collectTargets(paths, include, exclude []string, outDir string) ([]target, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	if err := project.ValidatePatterns("include", include); err != nil {
		return nil, err
	}
	if err := project.ValidatePatterns("exclude", exclude); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var targets []target
	add := func(root, path string) error {
		clean := filepath.Clean(path)
		if _, dup := seen[clean]; dup {
			return nil
		}
		seen[clean] = struct{}{}
		out, err := outputPath(root, clean, outDir)
		if err != nil {
			return err
		}
		targets = append(targets, target{in: clean, out: out})
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(filepath.Dir(p), p); err != nil {
				return nil, err
			}
			continue
		}
		root := filepath.Clean(p)
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// не заходим в собственный каталог вывода
				if outDir != "" && path != root && sameDir(path, outDir) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil || !selected(include, exclude, filepath.ToSlash(rel)) {
				return nil
			}
			return add(root, path)
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Slice(targets, func(i, j int) bool { return targets[i].in < targets[j].in })
	return targets, nil
}

// outputPath mirrors path (found under root) below outDir.
func outputPath(root, path, outDir string) (string, error) {
	if outDir == "" {
		return path, nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("map %s below %s: %w", path, outDir, err)
	}
	return filepath.Join(outDir, rel), nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// within reports whether path is dir or lies below it. An empty dir
// contains nothing.
func within(path, dir string) bool {
	if dir == "" {
		return false
	}
	absPath, errP := filepath.Abs(path)
	absDir, errD := filepath.Abs(dir)
	if errP != nil || errD != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
