package bin

import (
	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
)

// Material flag bits. The bitset is written to the stream but never stored
// on the model; the encoder derives it from the material's fields on every
// write.
const (
	matFlagEnvBase       = 0x00000100
	matFlagEnvMultiply   = 0x00000200
	matFlagEnvAdd        = 0x00000400
	matFlagEnvReflCompZ  = 0x00001000
	matFlagEnvReflProjZ  = 0x00002000
	matFlagEnvReflProjY  = 0x00004000
	matFlagAddEffect     = 0x00008000
	matFlagDiffuseMap    = 0x00040000
	matFlagEnvMap        = 0x00080000
	matFlagMipmaps       = 0x00800000
	matFlagDiffuseAlpha  = 0x01000000
	matFlagDiffuseAnim   = 0x04000000
	matFlagColoring      = 0x08000000
	matFlagTwoSided      = 0x10000000
	matFlagColorKey      = 0x20000000
	matFlagAlphaMap      = 0x40000000
	matFlagAdditiveBlend = 0x80000000

	// matFlagBase is set on every material.
	matFlagBase = 0x00000001
)

func readMaterial(fr *parse.BinaryReader, mat *fourds.Material) (failed bool) {
	var flags uint32
	if fr.Number(&flags) {
		return true
	}

	if readVector4(fr, &mat.Ambient) ||
		readVector4(fr, &mat.Diffuse) ||
		readVector4(fr, &mat.Specular) ||
		readVector4(fr, &mat.Emission) {
		return true
	}
	if fr.Number(&mat.Glossiness) || fr.Number(&mat.Opacity) {
		return true
	}

	mat.TwoSided = flags&matFlagTwoSided != 0
	mat.Mipmaps = flags&matFlagMipmaps != 0
	mat.Coloring = flags&matFlagColoring != 0
	mat.AdditiveBlend = flags&matFlagAdditiveBlend != 0
	mat.ColorKey = flags&matFlagColorKey != 0
	mat.DiffuseAlpha = flags&matFlagDiffuseAlpha != 0
	mat.EnvBaseMix = flags&matFlagEnvBase != 0

	switch {
	case flags&matFlagEnvAdd != 0:
		mat.EnvMix = fourds.EnvMixAdd
	case flags&matFlagEnvMultiply != 0:
		mat.EnvMix = fourds.EnvMixMultiply
	default:
		mat.EnvMix = fourds.EnvMixNone
	}
	switch {
	case flags&matFlagEnvReflProjY != 0 && flags&matFlagEnvReflProjZ != 0:
		mat.EnvProjection = fourds.EnvProjYZ
	case flags&matFlagEnvReflProjY != 0:
		mat.EnvProjection = fourds.EnvProjY
	case flags&matFlagEnvReflProjZ != 0:
		mat.EnvProjection = fourds.EnvProjZ
	default:
		mat.EnvProjection = fourds.EnvProjNone
	}

	// A material with no map block carries a single empty placeholder
	// string.
	noMap := true

	if flags&matFlagEnvMap != 0 {
		var name string
		if fr.Number(&mat.EnvRatio) || readString(fr, &name) {
			return true
		}
		mat.EnvMap = &fourds.TextureRef{Name: name}
		noMap = false
	}

	if flags&matFlagDiffuseMap != 0 {
		var name string
		if readString(fr, &name) {
			return true
		}
		mat.DiffuseMap = &fourds.TextureRef{Name: name}
		noMap = false
	}

	if flags&matFlagAlphaMap != 0 && flags&matFlagDiffuseAlpha == 0 {
		var name string
		if readString(fr, &name) {
			return true
		}
		mat.AlphaMap = &fourds.TextureRef{Name: name}
		noMap = false
	}

	if flags&matFlagDiffuseAnim != 0 {
		anim := &fourds.MapAnimation{}
		if fr.Number(&anim.FrameCount) ||
			fr.Number(&anim.Unknown0) ||
			fr.Number(&anim.FramePeriod) ||
			fr.Number(&anim.Unknown1) ||
			fr.Number(&anim.Unknown2) {
			return true
		}
		mat.Animation = anim
	}

	if noMap {
		var placeholder string
		if readString(fr, &placeholder) {
			return true
		}
	}

	return false
}

// materialFlags derives the wire flag bitset from the material's fields.
func materialFlags(mat *fourds.Material) uint32 {
	flags := uint32(matFlagBase)

	if mat.TwoSided {
		flags |= matFlagTwoSided
	}
	if mat.Mipmaps {
		flags |= matFlagMipmaps
	}
	if mat.Coloring {
		flags |= matFlagColoring
	}
	if mat.AdditiveBlend {
		flags |= matFlagAdditiveBlend
	}
	if mat.ColorKey {
		flags |= matFlagColorKey
	}
	if mat.DiffuseMap != nil {
		flags |= matFlagDiffuseMap
		if mat.Animation != nil {
			flags |= matFlagDiffuseAnim
		}
	}
	if mat.AlphaMap != nil {
		flags |= matFlagAlphaMap
	}
	if mat.DiffuseAlpha {
		flags |= matFlagAlphaMap | matFlagDiffuseAlpha
	}
	if mat.EnvMap != nil {
		flags |= matFlagEnvMap | matFlagEnvReflCompZ
	}
	if mat.EnvBaseMix {
		flags |= matFlagEnvBase
	}
	switch mat.EnvMix {
	case fourds.EnvMixAdd:
		flags |= matFlagEnvAdd
	case fourds.EnvMixMultiply:
		flags |= matFlagEnvMultiply
	}
	switch mat.EnvProjection {
	case fourds.EnvProjY:
		flags |= matFlagEnvReflProjY
	case fourds.EnvProjZ:
		flags |= matFlagEnvReflProjZ
	case fourds.EnvProjYZ:
		flags |= matFlagEnvReflProjY | matFlagEnvReflProjZ
	}

	return flags
}

func writeMaterial(fw *parse.BinaryWriter, mat *fourds.Material) (failed bool) {
	if fw.Number(materialFlags(mat)) {
		return true
	}

	if writeVector4(fw, mat.Ambient) ||
		writeVector4(fw, mat.Diffuse) ||
		writeVector4(fw, mat.Specular) ||
		writeVector4(fw, mat.Emission) {
		return true
	}
	if fw.Number(mat.Glossiness) || fw.Number(mat.Opacity) {
		return true
	}

	noMap := true

	if mat.EnvMap != nil {
		if fw.Number(mat.EnvRatio) || writeString(fw, mat.EnvMap.Name) {
			return true
		}
		noMap = false
	}

	if mat.DiffuseMap != nil {
		if writeString(fw, mat.DiffuseMap.Name) {
			return true
		}
		noMap = false
	}

	if mat.AlphaMap != nil && !mat.DiffuseAlpha {
		if writeString(fw, mat.AlphaMap.Name) {
			return true
		}
		noMap = false
	}

	if mat.DiffuseMap != nil && mat.Animation != nil {
		anim := mat.Animation
		if fw.Number(anim.FrameCount) ||
			fw.Number(anim.Unknown0) ||
			fw.Number(anim.FramePeriod) ||
			fw.Number(anim.Unknown1) ||
			fw.Number(anim.Unknown2) {
			return true
		}
	}

	if noMap {
		return writeString(fw, "")
	}

	return false
}
