package bin

import (
	"fmt"
	"io"

	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
	"github.com/ls3dtools/fourds/errors"
)

// Decoder decodes a stream of bytes into a fourds.Scene.
type Decoder struct {
	// Resolver loads the texture images referenced by the material table.
	// When nil, TextureRef.Image is left unset. A texture that fails to
	// resolve is reported as a warning, not an error.
	Resolver fourds.TextureResolver
}

// Decode reads data from r and decodes it into a Scene.
//
// Non-fatal observations are aggregated into warn; they do not prevent the
// scene from being returned. A non-nil err means the stream could not be
// decoded, and carries the byte offset where decoding stopped.
func (d Decoder) Decode(r io.Reader) (scene *fourds.Scene, warn, err error) {
	if r == nil {
		return nil, nil, fmt.Errorf("nil reader")
	}

	timestamp, reg, warn, err := d.decode(r)
	if err != nil {
		return nil, warn, err
	}

	scene = &fourds.Scene{Timestamp: timestamp}
	for _, mat := range reg.Materials() {
		scene.AddMaterial(mat)
	}
	for _, obj := range reg.Objects() {
		scene.AddObject(obj)
	}
	scene.Skeletons = fourds.BuildSkeletons(scene.Objects)
	return scene, warn, nil
}

// DecodeTo reads data from r and hands each decoded entity to p in table
// order. Nothing is delivered to p unless the whole stream decodes; a
// partially read table is discarded on error.
func (d Decoder) DecodeTo(r io.Reader, p fourds.Provider) (warn, err error) {
	if r == nil {
		return nil, fmt.Errorf("nil reader")
	}
	if p == nil {
		return nil, fmt.Errorf("nil provider")
	}

	_, reg, warn, err := d.decode(r)
	if err != nil {
		return warn, err
	}

	for _, mat := range reg.Materials() {
		p.AddMaterial(mat)
	}
	for _, obj := range reg.Objects() {
		p.AddObject(obj)
	}
	return warn, nil
}

func (d Decoder) decode(r io.Reader) (timestamp uint64, reg *fourds.Registry, warn, err error) {
	fr := parse.NewBinaryReader(r)
	reg = fourds.NewRegistry()
	var warns errors.Errors

	var sig [4]byte
	if fr.Bytes(sig[:]) {
		return 0, reg, nil, decodeError(fr, nil)
	}
	if string(sig[:]) != fourdsSig {
		return 0, reg, nil, decodeError(fr, ErrInvalidSignature)
	}

	var version uint16
	if fr.Number(&version) {
		return 0, reg, nil, decodeError(fr, nil)
	}
	if version != fourdsVersion {
		return 0, reg, nil, decodeError(fr, UnsupportedVersionError(version))
	}

	if fr.Number(&timestamp) {
		return 0, reg, nil, decodeError(fr, nil)
	}

	var matCount uint16
	if fr.Number(&matCount) {
		return 0, reg, nil, decodeError(fr, nil)
	}
	for i := 0; i < int(matCount); i++ {
		mat := &fourds.Material{}
		if readMaterial(fr, mat) {
			return 0, reg, warns.Return(), decodeError(fr, nil)
		}
		for _, ref := range []*fourds.TextureRef{mat.DiffuseMap, mat.AlphaMap, mat.EnvMap} {
			if ref != nil && !asciiClean(ref.Name) {
				warns = warns.Append(fmt.Errorf("material #%d: texture name %q is not ASCII", i+1, ref.Name))
			}
		}
		warns = warns.Append(d.resolveTextures(i+1, mat)...)
		reg.AddMaterial(mat)
	}

	var objCount uint16
	if fr.Number(&objCount) {
		return 0, reg, warns.Return(), decodeError(fr, nil)
	}
	for i := 0; i < int(objCount); i++ {
		obj, failed := readObject(fr, reg, i+1)
		if failed {
			err := decodeError(fr, nil)
			return 0, reg, warns.Return(), ObjectError{Index: i + 1, Name: obj.Name, Cause: err}
		}
		if !asciiClean(obj.Name) {
			warns = warns.Append(fmt.Errorf("object #%d: name %q is not ASCII", i+1, obj.Name))
		}
		if !asciiClean(obj.Properties) {
			warns = warns.Append(fmt.Errorf("object #%d: properties are not ASCII", i+1))
		}
		reg.AddObject(obj)
	}

	var trailer uint8
	if fr.Number(&trailer) {
		return 0, reg, warns.Return(), decodeError(fr, nil)
	}
	if trailer != trailerByte {
		warns = warns.Append(ErrTrailerContent)
	}

	return timestamp, reg, warns.Return(), nil
}

// resolveTextures loads the images of the material's texture slots through
// the configured resolver. Failures are returned as warnings.
func (d Decoder) resolveTextures(index int, mat *fourds.Material) []error {
	if d.Resolver == nil {
		return nil
	}
	var warns []error
	for _, ref := range []*fourds.TextureRef{mat.DiffuseMap, mat.AlphaMap, mat.EnvMap} {
		if ref == nil || ref.Name == "" {
			continue
		}
		img, err := d.Resolver.Resolve(ref.Name)
		if err != nil {
			warns = append(warns, fmt.Errorf("material #%d: texture %q: %w", index, ref.Name, err))
			continue
		}
		ref.Image = img
	}
	return warns
}
