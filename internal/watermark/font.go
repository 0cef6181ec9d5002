package watermark

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// ErrNoFont is returned when none of the font candidates could be loaded.
var ErrNoFont = errors.New("no usable watermark font")

type FontCandidate struct {
	Name string
	Load func() ([]byte, error)
}

func FileFont(path string) FontCandidate {
	return FontCandidate{
		Name: path,
		Load: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// EmbeddedFont is the Go Bold face compiled into the binary.
func EmbeddedFont() FontCandidate {
	return FontCandidate{
		Name: "gobold",
		Load: func() ([]byte, error) { return gobold.TTF, nil },
	}
}

// DefaultFonts tries the given font files in order and ends with the embedded face.
func DefaultFonts(paths []string) []FontCandidate {
	out := make([]FontCandidate, 0, len(paths)+1)
	for _, p := range paths {
		out = append(out, FileFont(p))
	}
	return append(out, EmbeddedFont())
}

func loadFont(candidates []FontCandidate) (*opentype.Font, error) {
	var errs []error
	for _, c := range candidates {
		data, err := c.Load()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		return f, nil
	}
	return nil, errors.Join(append([]error{ErrNoFont}, errs...)...)
}
