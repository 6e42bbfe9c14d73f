package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure Workspace implements the interface.
var _ driven.Workspace = (*Workspace)(nil)

// Folder names under the staging root.
const (
	ImagesDir    = "Images"
	DocumentsDir = "Documents"
)

// Workspace stages files under a root directory.
type Workspace struct {
	root string
	now  func() time.Time

	// mu serialises name allocation in NewImagePath.
	mu sync.Mutex
}

// NewWorkspace creates a workspace rooted at dir.
// If dir is empty, defaults to ~/.bucketdrop/staging.
func NewWorkspace(dir string) (*Workspace, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".bucketdrop", "staging")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve staging dir: %w", err)
	}
	return &Workspace{root: abs, now: time.Now}, nil
}

// Root returns the staging directory.
func (w *Workspace) Root() string {
	return w.root
}

// NewImagePath returns an unused <millis><ext> path in the Images folder.
func (w *Workspace) NewImagePath(ext string) (string, error) {
	dir := filepath.Join(w.root, ImagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create images folder: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	base := strconv.FormatInt(w.now().UnixMilli(), 10)
	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = base + "-" + strconv.Itoa(i)
		}
		path := filepath.Join(dir, name+ext)

		// Reserve the name so a second call in the same millisecond moves on
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create image file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("create image file: %w", err)
		}
		return path, nil
	}
}

// CopyDocument copies src to Documents/<base name of src>.
func (w *Workspace) CopyDocument(ctx context.Context, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("open document: %s is a directory", src)
	}

	dir := filepath.Join(w.root, DocumentsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create documents folder: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(src))

	if existing, err := os.Stat(dst); err == nil && os.SameFile(info, existing) {
		return dst, nil
	}

	// Write next to the destination and rename, so a cancelled copy
	// never replaces a good one
	tmp, err := os.CreateTemp(dir, ".copy-*")
	if err != nil {
		return "", fmt.Errorf("create staged document: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := io.Copy(tmp, &contextReader{ctx: ctx, r: in}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("copy document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	return dst, nil
}

// Remove deletes path. A missing file is not an error.
func (w *Workspace) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
