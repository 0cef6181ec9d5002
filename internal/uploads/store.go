package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File is an uploaded file as received from the client.
type File struct {
	Name string
	Body io.Reader
}

// Saved describes a file written by Store.Save.
type Saved struct {
	Name string
	// Replaced is true when a file with the same name already existed and was overwritten.
	Replaced bool
}

// Store is a flat upload directory. Same-name uploads overwrite each other.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Save sanitises f.Name and writes the body under that name.
func (s *Store) Save(f File) (Saved, error) {
	name, err := SecureFilename(f.Name)
	if err != nil {
		return Saved{}, err
	}

	replaced := s.Exists(name)
	if err := WriteFileAtomic(s.Path(name), func(w io.Writer) error {
		_, err := io.Copy(w, f.Body)
		return err
	}); err != nil {
		return Saved{}, fmt.Errorf("save upload %s: %w", name, err)
	}

	return Saved{Name: name, Replaced: replaced}, nil
}

func (s *Store) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// WriteFileAtomic writes through a temp file in the target directory and renames it over path.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, ".tmp-"+uuid.NewString())

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
