package typescript

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/teranos/contractor/typegen/identity"
	"github.com/teranos/contractor/typegen/util"
)

// FileExtension of every generated module
const FileExtension = "ts"

// Layout places declarations on disk and computes the import paths between them.
// All paths are slash-separated and relative to the output directory.
type Layout struct {
	Casing util.Casing
	// Root, when set, replaces relative paths in client imports, e.g. "~/api"
	Root string
}

// FileName is the cased file name of a declared name, without extension
func (l Layout) FileName(name string) string {
	return l.Casing.Apply(name)
}

// File is the output-relative path of the module declaring id
func (l Layout) File(id identity.Identity) string {
	return path.Join(id.Path, l.FileName(id.Name)+"."+FileExtension)
}

// RelativeImport is the module specifier used by a file in fromDir to import id.
// It is pure path algebra and never touches the filesystem.
func (l Layout) RelativeImport(fromDir string, id identity.Identity) string {
	rel, err := filepath.Rel(filepath.FromSlash(clean(fromDir)), filepath.FromSlash(clean(id.Path)))
	if err != nil {
		// both sides are output-relative, so this only happens on malformed paths
		rel = id.Path
	}
	// Rel keeps a trailing "." when the target is the root, e.g. "../."
	rel = path.Clean(filepath.ToSlash(rel))

	var specifier string
	switch {
	case rel == ".":
		specifier = "./" + l.FileName(id.Name)
	case strings.HasPrefix(rel, "."):
		specifier = rel + "/" + l.FileName(id.Name)
	default:
		specifier = "./" + rel + "/" + l.FileName(id.Name)
	}
	return collapse(specifier)
}

// RootedImport prefixes the producer path with the root marker when one is configured,
// and falls back to RelativeImport otherwise.
func (l Layout) RootedImport(fromDir string, id identity.Identity) string {
	if l.Root == "" {
		return l.RelativeImport(fromDir, id)
	}
	return collapse(l.Root + "/" + id.Path + "/" + l.FileName(id.Name))
}

func clean(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func collapse(specifier string) string {
	for strings.Contains(specifier, "//") {
		specifier = strings.ReplaceAll(specifier, "//", "/")
	}
	return specifier
}
