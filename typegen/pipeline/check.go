package pipeline

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen/typescript"
)

// Drift lists output-relative paths where the output directory differs from a fresh run
type Drift struct {
	Changed []string
	Missing []string
	// Stale files carry the generated header but are no longer produced
	Stale []string
}

// UpToDate reports whether the output directory matches a fresh run
func (d *Drift) UpToDate() bool {
	return len(d.Changed) == 0 && len(d.Missing) == 0 && len(d.Stale) == 0
}

// Check generates into a temporary directory and compares the result with cfg.Output.
// Nothing under cfg.Output is modified.
func Check(ctx context.Context, cfg *config.Config) (*Drift, error) {
	tmp, err := os.MkdirTemp("", "contractor-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tmp)

	shadow := *cfg
	shadow.Output = tmp
	shadow.Clean = config.CleanNone

	result, err := Run(ctx, &shadow)
	if err != nil {
		return nil, err
	}
	if result.HasFailures() {
		return nil, errors.Newf("%d files could not be generated", len(result.Failed()))
	}

	return compare(tmp, cfg.Output, cfg.Clean != config.CleanNone)
}

// compare diffs the generated tree against the existing one
func compare(generated, existing string, stale bool) (*Drift, error) {
	drift := &Drift{}
	produced := make(map[string]bool)

	err := filepath.WalkDir(generated, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(generated, path)
		if err != nil {
			return err
		}
		produced[rel] = true

		want, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		have, err := os.ReadFile(filepath.Join(existing, rel))
		switch {
		case os.IsNotExist(err):
			drift.Missing = append(drift.Missing, filepath.ToSlash(rel))
		case err != nil:
			return err
		case !bytes.Equal(want, have):
			drift.Changed = append(drift.Changed, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to compare generated output")
	}

	if _, err := os.Stat(existing); stale && err == nil {
		err := filepath.WalkDir(existing, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(existing, path)
			if err != nil || produced[rel] {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if typescript.IsGenerated(content) {
				drift.Stale = append(drift.Stale, filepath.ToSlash(rel))
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan output directory")
		}
	}

	sort.Strings(drift.Changed)
	sort.Strings(drift.Missing)
	sort.Strings(drift.Stale)
	return drift, nil
}
