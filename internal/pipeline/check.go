package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"superforge/internal/manifest"
)

// ErrMissingDocuments reports manifest documents absent from disk.
var ErrMissingDocuments = errors.New("missing documents")

// MissingDocumentsError lists the absent documents of one book.
type MissingDocumentsError struct {
	Book  int
	Paths []string
}

func (e *MissingDocumentsError) Error() string {
	preview := e.Paths
	if len(preview) > 3 {
		preview = preview[:3]
	}
	msg := fmt.Sprintf("book %d: %d documents missing (%s", e.Book, len(e.Paths), strings.Join(preview, ", "))
	if len(e.Paths) > len(preview) {
		msg += ", ..."
	}
	return msg + ")"
}

func (e *MissingDocumentsError) Is(target error) bool { return target == ErrMissingDocuments }

func (e *MissingDocumentsError) ErrorKind() string { return "not_found" }

// CheckDocuments stats every document of m under layout and returns the full
// paths that do not exist, in manifest order. Errors other than non-existence
// are returned immediately.
func CheckDocuments(m manifest.Manifest, layout manifest.Layout) ([]string, error) {
	var missing []string
	for _, path := range m.Paths(layout) {
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, path)
		case err != nil:
			return nil, fmt.Errorf("stat %s: %w", path, err)
		case info.IsDir():
			missing = append(missing, path)
		}
	}
	return missing, nil
}
