// Package output writes rendered files into a target project and applies
// build-file requests.
package output

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/lucasnoah/pipegen/internal/render"
)

// ErrAnchorNotFound is returned when a build file lacks the text a fragment
// must be inserted before.
var ErrAnchorNotFound = errors.New("anchor not found in build file")

// WriteAtomic writes data to name atomically by writing to a temp file
// in the same directory, then renaming.
func WriteAtomic(fs billy.Filesystem, name string, data []byte) error {
	dir := path.Dir(name)
	if dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmp, err := util.TempFile(fs, dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up temp file on any error path.
	defer func() {
		if tmpName != "" {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := fs.Rename(tmpName, name); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpName, name, err)
	}
	tmpName = "" // prevent deferred removal
	return nil
}

// WriteFiles writes every file of a render result. Nothing is written when
// the result has no files.
func WriteFiles(fs billy.Filesystem, files []render.File) error {
	for _, f := range files {
		if err := WriteAtomic(fs, f.Path, []byte(f.Content)); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}
	return nil
}

// ApplyBuildFileRequest adds req.Fragment to the build file it names. It
// reports whether the file changed: a file that already contains req.Marker
// is left alone, so applying the same request twice is a no-op.
func ApplyBuildFileRequest(fs billy.Filesystem, req render.BuildFileRequest) (bool, error) {
	data, err := util.ReadFile(fs, req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("build file %s: %w", req.Path, err)
		}
		return false, fmt.Errorf("reading %s: %w", req.Path, err)
	}
	content := string(data)

	if req.Marker != "" && strings.Contains(content, req.Marker) {
		return false, nil
	}

	var updated string
	if req.Anchor != "" {
		idx := strings.LastIndex(content, req.Anchor)
		if idx < 0 {
			return false, fmt.Errorf("%s: %w: %q", req.Path, ErrAnchorNotFound, req.Anchor)
		}
		updated = content[:idx] + req.Fragment + content[idx:]
	} else {
		updated = content
		if updated != "" && !strings.HasSuffix(updated, "\n") {
			updated += "\n"
		}
		updated += req.Fragment
	}

	if err := WriteAtomic(fs, req.Path, []byte(updated)); err != nil {
		return false, err
	}
	return true, nil
}
