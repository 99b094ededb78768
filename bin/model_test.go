package bin

import (
	"bytes"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3Swap(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, writeVector3(fw, math32.Vec3(1, 2, 3)))

	// The stream stores (x, z, y).
	want := []byte{
		0x00, 0x00, 0x80, 0x3F, // 1.0
		0x00, 0x00, 0x40, 0x40, // 3.0
		0x00, 0x00, 0x00, 0x40, // 2.0
	}
	assert.Equal(t, want, buf.Bytes())

	fr := parse.NewBinaryReader(&buf)
	var v math32.Vector3
	require.False(t, readVector3(fr, &v))
	assert.Equal(t, math32.Vec3(1, 2, 3), v)
}

func TestQuatSwap(t *testing.T) {
	q := math32.Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}

	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, writeQuat(fw, q))
	require.EqualValues(t, 16, buf.Len())

	fr := parse.NewBinaryReader(&buf)
	var got math32.Quat
	require.False(t, readQuat(fr, &got))
	assert.Equal(t, q, got)
}

func TestFaceWinding(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, writeFace(fw, fourds.Face{1, 2, 3}))

	// The stream stores the triangle reversed.
	want := []byte{0x03, 0x00, 0x02, 0x00, 0x01, 0x00}
	assert.Equal(t, want, buf.Bytes())

	fr := parse.NewBinaryReader(&buf)
	var f fourds.Face
	require.False(t, readFace(fr, &f))
	assert.Equal(t, fourds.Face{1, 2, 3}, f)
}

func TestMatrixTranspose(t *testing.T) {
	var m math32.Matrix4
	m.SetIdentity()
	m[12], m[13], m[14] = 4, 5, 6

	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, writeMatrix(fw, m))
	require.EqualValues(t, 64, buf.Len())

	// Row-major on the wire: the translation lands in the last column of
	// each of the first three rows.
	stream := buf.Bytes()
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x40}, stream[3*4:4*4])   // m03 = 4
	assert.Equal(t, []byte{0x00, 0x00, 0xA0, 0x40}, stream[7*4:8*4])   // m13 = 5
	assert.Equal(t, []byte{0x00, 0x00, 0xC0, 0x40}, stream[11*4:12*4]) // m23 = 6

	fr := parse.NewBinaryReader(&buf)
	var got math32.Matrix4
	require.False(t, readMatrix(fr, &got))
	assert.Equal(t, m, got)
}

func TestPresizedString(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, writeString(fw, "box01"))
	assert.Equal(t, []byte{0x05, 'b', 'o', 'x', '0', '1'}, buf.Bytes())

	fr := parse.NewBinaryReader(&buf)
	var s string
	require.False(t, readString(fr, &s))
	assert.Equal(t, "box01", s)
}

func TestPresizedStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	assert.True(t, writeString(fw, strings.Repeat("x", 256)))
	assert.ErrorIs(t, fw.Err(), ErrNameTooLong)
}

func TestVector3Pad(t *testing.T) {
	var buf bytes.Buffer
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, writeVector3Pad(fw, math32.Vec3(1, 2, 3)))
	require.EqualValues(t, 16, buf.Len())
	assert.Equal(t, []byte{0, 0, 0, 0}, buf.Bytes()[12:16])

	fr := parse.NewBinaryReader(&buf)
	var v math32.Vector3
	require.False(t, readVector3Pad(fr, &v))
	assert.Equal(t, math32.Vec3(1, 2, 3), v)
}
