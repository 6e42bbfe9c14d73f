package driven

import "context"

// Workspace manages the local staging area.
// Images live under an Images folder, documents under a Documents folder.
type Workspace interface {
	// NewImagePath returns a fresh, timestamp-named path in the Images folder
	// with the given extension (including the dot). The folder is created.
	NewImagePath(ext string) (string, error)

	// CopyDocument copies src into the Documents folder under its base name,
	// replacing any previous copy, and returns the staged path.
	CopyDocument(ctx context.Context, src string) (string, error)

	// Remove deletes a file, typically a staged copy or a consumed camera
	// capture. A missing file is not an error.
	Remove(path string) error

	// Root returns the staging directory.
	Root() string
}
