package fourds

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectTree(t *testing.T) {
	root := NewObject(KindSector, "sector01", nil)
	a := NewObject(KindVisual, "a", root)
	b := NewObject(KindVisual, "b", root)
	c := NewObject(KindVisual, "c", a)

	assert.Same(t, root, a.Parent())
	assert.Equal(t, []*Object{a, b}, root.Children())
	assert.True(t, root.IsAncestorOf(c))
	assert.True(t, c.IsDescendantOf(root))
	assert.False(t, b.IsAncestorOf(a))

	require.NoError(t, c.SetParent(b))
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Object{c}, b.Children())

	scene := &Scene{}
	for _, obj := range []*Object{root, a, b, c} {
		scene.AddObject(obj)
	}
	assert.Equal(t, []*Object{root}, scene.Roots())
}

func TestObjectSetParentCycle(t *testing.T) {
	a := NewObject(KindDummy, "a", nil)
	b := NewObject(KindDummy, "b", a)

	assert.Error(t, a.SetParent(a))
	assert.Error(t, a.SetParent(b))
	assert.Same(t, a, b.Parent())
}

func TestObjectJointAncestor(t *testing.T) {
	body := NewObject(KindVisual, "body", nil)
	bone := NewObject(KindJoint, "bone", body)
	probe := NewObject(KindDummy, "probe", bone)

	assert.Same(t, bone, probe.JointAncestor())
	assert.Nil(t, bone.JointAncestor())
}

func TestBuildLODSplitsCorners(t *testing.T) {
	positions := []math32.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
	}
	up := math32.Vec3(0, 1, 0)
	side := math32.Vec3(1, 0, 0)
	mat := &Material{}

	// Two triangles share positions 0 and 2, but the second disagrees on
	// the shared corners' normals, so those positions split.
	lod := BuildLOD(positions, []InputFace{
		{
			Corners: [3]FaceCorner{
				{Position: 0, Normal: up, UV: math32.Vec2(0, 0)},
				{Position: 1, Normal: up, UV: math32.Vec2(1, 0)},
				{Position: 2, Normal: up, UV: math32.Vec2(1, 1)},
			},
			Material: mat,
		},
		{
			Corners: [3]FaceCorner{
				{Position: 0, Normal: side, UV: math32.Vec2(0, 0)},
				{Position: 2, Normal: side, UV: math32.Vec2(1, 1)},
				{Position: 3, Normal: side, UV: math32.Vec2(0, 1)},
			},
			Material: mat,
		},
	})

	assert.Len(t, lod.Vertices, 6)
	require.Len(t, lod.Submeshes, 1)
	assert.Len(t, lod.Submeshes[0].Faces, 2)
	assert.Same(t, mat, lod.Submeshes[0].Material)
}

func TestBuildLODGroupsByMaterial(t *testing.T) {
	positions := []math32.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 1},
	}
	up := math32.Vec3(0, 1, 0)
	matA := &Material{}
	matB := &Material{}

	corners := [3]FaceCorner{
		{Position: 0, Normal: up},
		{Position: 1, Normal: up},
		{Position: 2, Normal: up},
	}
	lod := BuildLOD(positions, []InputFace{
		{Corners: corners, Material: matA},
		{Corners: corners, Material: matB},
		{Corners: corners, Material: matA},
	})

	// Shared corners collapse; submeshes come out in first-use order.
	assert.Len(t, lod.Vertices, 3)
	require.Len(t, lod.Submeshes, 2)
	assert.Same(t, matA, lod.Submeshes[0].Material)
	assert.Len(t, lod.Submeshes[0].Faces, 2)
	assert.Same(t, matB, lod.Submeshes[1].Material)
	assert.Len(t, lod.Submeshes[1].Faces, 1)
}

func TestGeometryDigest(t *testing.T) {
	lod := func(offset float32) *LOD {
		return &LOD{
			Vertices: []Vertex{
				{Position: math32.Vec3(offset, 0, 0)},
				{Position: math32.Vec3(offset+1, 0, 0)},
				{Position: math32.Vec3(offset+1, 0, 1)},
			},
			Submeshes: []Submesh{{Faces: []Face{{0, 1, 2}}}},
		}
	}

	a := &StandardMesh{LODs: []*LOD{lod(0)}}
	b := &StandardMesh{LODs: []*LOD{lod(0)}}
	c := &StandardMesh{LODs: []*LOD{lod(5)}}

	assert.Equal(t, a.GeometryDigest(), b.GeometryDigest())
	assert.NotEqual(t, a.GeometryDigest(), c.GeometryDigest())
	assert.Equal(t, a.LODs[0].Digest(), b.LODs[0].Digest())
	assert.NotEqual(t, a.LODs[0].Digest(), c.LODs[0].Digest())
}
