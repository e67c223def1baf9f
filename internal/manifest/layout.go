package manifest

import (
	"fmt"
	"path/filepath"
)

// Layout describes where each book's working files live on disk.
type Layout struct {
	BooksDir string
}

// BookDir returns <books_dir>/bookNN.
func (l Layout) BookDir(book int) string {
	return filepath.Join(l.BooksDir, fmt.Sprintf("book%02d", book))
}

func (l Layout) HTMLDir(book int) string {
	return filepath.Join(l.BookDir(book), "html")
}

func (l Layout) StylesDir(book int) string {
	return filepath.Join(l.BookDir(book), "Styles")
}

func (l Layout) ImagesDir(book int) string {
	return filepath.Join(l.BookDir(book), "Images")
}

// DescriptorName returns the build descriptor filename for book.
func DescriptorName(book int) string {
	return fmt.Sprintf("sg%d.yaml", book)
}

// DescriptorPath returns the full path of the build descriptor for book.
func (l Layout) DescriptorPath(book int) string {
	return filepath.Join(l.HTMLDir(book), DescriptorName(book))
}

// LockPath returns the file used to serialize builds over the books dir.
func (l Layout) LockPath() string {
	return filepath.Join(l.BooksDir, ".superforge.lock")
}

// DocumentPath resolves the owning book of ref and returns its full path.
func (l Layout) DocumentPath(ref DocumentRef) (string, error) {
	book, err := ref.Book()
	if err != nil {
		return "", err
	}
	return l.documentPath(book, ref), nil
}

func (l Layout) documentPath(book int, ref DocumentRef) string {
	return filepath.Join(l.HTMLDir(book), ref.Filename())
}
