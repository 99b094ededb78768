package fourds

import (
	"image"

	"cogentcore.org/core/math32"
)

// EnvMixMode selects how an environment map is combined with the base
// texture.
type EnvMixMode uint8

const (
	EnvMixNone EnvMixMode = iota
	EnvMixMultiply
	EnvMixAdd
)

// EnvProjection selects the axis the environment reflection is projected
// along.
type EnvProjection uint8

const (
	EnvProjNone EnvProjection = iota
	EnvProjY
	EnvProjZ
	EnvProjYZ
)

// TextureRef names a texture slot's backing file. Image is populated by the
// decoder when a TextureResolver is configured, and is nil otherwise.
type TextureRef struct {
	// Name is the file's base name, uppercased, at most 255 bytes.
	Name string

	Image image.Image
}

// MapAnimation describes an animated diffuse map: a sequence of frames
// cycled at a fixed period.
type MapAnimation struct {
	FrameCount  uint32
	Unknown0    uint16
	FramePeriod uint32
	Unknown1    uint32
	Unknown2    uint32
}

// Material is one entry of the material table.
//
// The wire format stores a 32-bit flag bitset alongside these fields. The
// bitset is a derived projection of the semantic properties below and is
// never stored here: the encoder re-derives it on every write, so the two
// representations cannot drift apart.
type Material struct {
	Ambient  math32.Vector4
	Diffuse  math32.Vector4
	Specular math32.Vector4
	Emission math32.Vector4

	Glossiness float32
	Opacity    float32

	// TwoSided disables back-face culling.
	TwoSided bool

	// Mipmaps requests mip-map generation for the diffuse map.
	Mipmaps bool

	Coloring      bool
	AdditiveBlend bool

	// ColorKey makes the darkest palette entry transparent.
	ColorKey bool

	// DiffuseAlpha reuses the diffuse map's alpha channel instead of a
	// separate alpha map. Mutually exclusive with AlphaMap on the wire.
	DiffuseAlpha bool

	DiffuseMap *TextureRef
	AlphaMap   *TextureRef
	EnvMap     *TextureRef

	// EnvRatio is the environment overlay ratio, present only with EnvMap.
	EnvRatio      float32
	EnvMix        EnvMixMode
	EnvBaseMix    bool
	EnvProjection EnvProjection

	// Animation is the animated-diffuse-map descriptor, present only when
	// the diffuse map is animated.
	Animation *MapAnimation
}
