package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wall01.png"))

	r := &Resolver{Dirs: []string{filepath.Join(dir, "missing"), dir}}

	// Table entries are uppercase; the file on disk is not.
	img, err := r.Resolve("WALL01.PNG")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = r.Resolve("ABSENT.PNG")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveRejectsPaths(t *testing.T) {
	r := &Resolver{Dirs: []string{t.TempDir()}}
	_, err := r.Resolve("../escape.png")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve("")
	assert.Error(t, err)
}

func TestWriteWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	require.NoError(t, WriteWebP(&buf, img))
	assert.Equal(t, "RIFF", string(buf.Bytes()[:4]))
}
