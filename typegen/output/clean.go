package output

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
	"github.com/teranos/contractor/typegen/typescript"
)

// Clean removes files below the root that were not written in this run.
//
//	none   - keep everything
//	smart  - remove stale files that carry the generated-file header
//	remove - remove every stale file
//
// Directories left empty are removed as well. Returns the removed files, sorted.
func (w *Writer) Clean(method string) ([]string, error) {
	if method == config.CleanNone {
		return nil, nil
	}
	if method != config.CleanSmart && method != config.CleanRemove {
		return nil, errors.NewConfigurationError("unknown clean method %q", method)
	}
	if _, err := os.Stat(w.root); os.IsNotExist(err) {
		return nil, nil
	}

	var removed []string
	var dirs []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.root {
				dirs = append(dirs, path)
			}
			return nil
		}
		if w.isWritten(path) {
			return nil
		}

		if method == config.CleanSmart {
			content, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", path)
			}
			if !typescript.IsGenerated(content) {
				return nil
			}
		}

		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "failed to remove %s", path)
		}
		w.log.Infow("Removed stale file", logger.FieldFile, path)
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		return removed, errors.Wrap(err, "cleaning output directory")
	}

	// deepest first, so parents empty out after their children
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}

	sort.Strings(removed)
	return removed, nil
}
