// The texture package resolves the texture names stored in 4DS material
// tables against a list of search directories, the way the engine resolves
// them against its MAPS directories.
package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// ErrNotFound indicates that a texture name matched no file in any search
// directory.
var ErrNotFound = errors.New("texture not found")

// Resolver loads texture images from a list of search directories, checked
// in order. It implements fourds.TextureResolver.
type Resolver struct {
	// Dirs are the directories searched, in order. A name is also tried
	// lowercased, since table entries are stored uppercase while files on
	// disk often are not.
	Dirs []string
}

// Resolve finds and decodes the named texture. The name is a base file name
// as stored in the material table; path separators are rejected.
func (r *Resolver) Resolve(name string) (image.Image, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("texture: invalid name %q", name)
	}

	for _, dir := range r.Dirs {
		for _, candidate := range []string{name, strings.ToLower(name)} {
			path := filepath.Join(dir, candidate)
			img, err := load(path)
			if err == nil {
				return img, nil
			}
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("texture: %q: %w", name, ErrNotFound)
}

func load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// WriteWebP encodes img as a lossless WebP to w.
func WriteWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}
