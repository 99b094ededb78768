package bin

import (
	"cogentcore.org/core/math32"
	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
)

////////////////////////////////////////////////////////////////

// readString reads a presized string: a uint8 length followed by that many
// bytes.
func readString(fr *parse.BinaryReader, data *string) (failed bool) {
	if fr.Err() != nil {
		return true
	}

	var length uint8
	if fr.Number(&length) {
		return true
	}

	s := make([]byte, length)
	if fr.Bytes(s) {
		return true
	}

	*data = string(s)

	return false
}

// writeString writes a presized string. Strings longer than 255 bytes cannot
// be represented and fail with ErrNameTooLong.
func writeString(fw *parse.BinaryWriter, data string) (failed bool) {
	if fw.Err() != nil {
		return true
	}

	if len(data) > 255 {
		return fw.Add(0, ErrNameTooLong)
	}

	if fw.Number(uint8(len(data))) {
		return true
	}

	return fw.Bytes([]byte(data))
}

// asciiClean reports whether s contains only ASCII bytes.
func asciiClean(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

////////////////////////////////////////////////////////////////

// readVector3 reads three floats, swapping the stream's Y and Z axes.
func readVector3(fr *parse.BinaryReader, v *math32.Vector3) (failed bool) {
	var x, y, z float32
	if fr.Number(&x) || fr.Number(&y) || fr.Number(&z) {
		return true
	}
	*v = math32.Vec3(x, z, y)
	return false
}

func writeVector3(fw *parse.BinaryWriter, v math32.Vector3) (failed bool) {
	return fw.Number(v.X) || fw.Number(v.Z) || fw.Number(v.Y)
}

// readVector3Pad reads a vector followed by a 4-byte pad float.
func readVector3Pad(fr *parse.BinaryReader, v *math32.Vector3) (failed bool) {
	var pad float32
	return readVector3(fr, v) || fr.Number(&pad)
}

// writeVector3Pad writes a vector followed by a zero pad float.
func writeVector3Pad(fw *parse.BinaryWriter, v math32.Vector3) (failed bool) {
	return writeVector3(fw, v) || fw.Number(float32(0))
}

// readVector2 reads two floats verbatim.
func readVector2(fr *parse.BinaryReader, v *math32.Vector2) (failed bool) {
	return fr.Number(&v.X) || fr.Number(&v.Y)
}

func writeVector2(fw *parse.BinaryWriter, v math32.Vector2) (failed bool) {
	return fw.Number(v.X) || fw.Number(v.Y)
}

// readVector4 reads four floats verbatim.
func readVector4(fr *parse.BinaryReader, v *math32.Vector4) (failed bool) {
	return fr.Number(&v.X) || fr.Number(&v.Y) || fr.Number(&v.Z) || fr.Number(&v.W)
}

func writeVector4(fw *parse.BinaryWriter, v math32.Vector4) (failed bool) {
	return fw.Number(v.X) || fw.Number(v.Y) || fw.Number(v.Z) || fw.Number(v.W)
}

////////////////////////////////////////////////////////////////

// readQuat reads a quaternion stored (x, y, z, w) in stream axes, applying
// the Y/Z swap.
func readQuat(fr *parse.BinaryReader, q *math32.Quat) (failed bool) {
	var x, y, z, w float32
	if fr.Number(&x) || fr.Number(&y) || fr.Number(&z) || fr.Number(&w) {
		return true
	}
	q.X = x
	q.Y = z
	q.Z = y
	q.W = w
	return false
}

func writeQuat(fw *parse.BinaryWriter, q math32.Quat) (failed bool) {
	return fw.Number(q.X) || fw.Number(q.Z) || fw.Number(q.Y) || fw.Number(q.W)
}

////////////////////////////////////////////////////////////////

// readFace reads a triangle's three indices, reversing the winding.
func readFace(fr *parse.BinaryReader, f *fourds.Face) (failed bool) {
	var a, b, c uint16
	if fr.Number(&a) || fr.Number(&b) || fr.Number(&c) {
		return true
	}
	*f = fourds.Face{c, b, a}
	return false
}

func writeFace(fw *parse.BinaryWriter, f fourds.Face) (failed bool) {
	return fw.Number(f[2]) || fw.Number(f[1]) || fw.Number(f[0])
}

////////////////////////////////////////////////////////////////

// readMatrix reads a 4x4 matrix stored row-major, transposing it into the
// column-major model representation.
func readMatrix(fr *parse.BinaryReader, m *math32.Matrix4) (failed bool) {
	var raw [16]float32
	for i := range raw {
		if fr.Number(&raw[i]) {
			return true
		}
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[c*4+r] = raw[r*4+c]
		}
	}
	return false
}

func writeMatrix(fw *parse.BinaryWriter, m math32.Matrix4) (failed bool) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if fw.Number(m[c*4+r]) {
				return true
			}
		}
	}
	return false
}
