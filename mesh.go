package fourds

import (
	"encoding/binary"
	"hash"
	"math"

	"cogentcore.org/core/math32"
	"golang.org/x/crypto/blake2b"
)

// Mesh is the kind-specific payload of an Object. The set of implementations
// is closed; codecs switch on the concrete type exhaustively.
//
// Implemented by StandardMesh, Billboard, MorphMesh, SingleMesh, SingleMorph,
// Sector, Mirror, Occluder, Dummy, Target, Lens, and Joint.
type Mesh interface {
	isMesh()
}

func (*StandardMesh) isMesh() {}
func (*Billboard) isMesh()    {}
func (*MorphMesh) isMesh()    {}
func (*SingleMesh) isMesh()   {}
func (*SingleMorph) isMesh()  {}
func (*Sector) isMesh()       {}
func (*Mirror) isMesh()       {}
func (*Occluder) isMesh()     {}
func (*Dummy) isMesh()        {}
func (*Target) isMesh()       {}
func (*Lens) isMesh()         {}
func (*Joint) isMesh()        {}

////////////////////////////////////////////////////////////////

// Vertex is one entry of a LOD's vertex stream.
type Vertex struct {
	Position math32.Vector3
	Normal   math32.Vector3
	UV       math32.Vector2
}

// Face is one triangle as three vertex indices.
type Face [3]uint16

// Submesh groups the faces of a LOD that share a material. Material may be
// nil for the reserved material slot (stream index 0).
type Submesh struct {
	Faces    []Face
	Material *Material
}

// LOD is one level of detail of a standard or single mesh.
type LOD struct {
	// DistanceSq is the squared view distance at which this level stops
	// being drawn. Zero means unlimited.
	DistanceSq float32

	Unknown uint32

	Vertices  []Vertex
	Submeshes []Submesh
}

// Digest returns a content hash of the LOD's geometry. The encoder uses it
// to detect identical geometry across objects.
func (lod *LOD) Digest() [blake2b.Size256]byte {
	h := newBlake2bDigest()
	lod.digest(h)
	return h.sum()
}

// digest writes a content hash of the LOD's geometry to h.
func (lod *LOD) digest(h *blake2bDigest) {
	h.u32(math.Float32bits(lod.DistanceSq))
	h.u32(lod.Unknown)
	h.u32(uint32(len(lod.Vertices)))
	for _, v := range lod.Vertices {
		h.vec3(v.Position)
		h.vec3(v.Normal)
		h.u32(math.Float32bits(v.UV.X))
		h.u32(math.Float32bits(v.UV.Y))
	}
	h.u32(uint32(len(lod.Submeshes)))
	for _, sub := range lod.Submeshes {
		h.u32(uint32(len(sub.Faces)))
		for _, f := range sub.Faces {
			h.u32(uint32(f[0]))
			h.u32(uint32(f[1]))
			h.u32(uint32(f[2]))
		}
	}
}

// StandardMesh is the payload of a standard visual object. When Instance is
// non-nil the object draws another object's geometry and LODs is ignored on
// encode.
type StandardMesh struct {
	Instance *Object
	LODs     []*LOD
}

// GeometryDigest returns a content hash of the mesh's own LOD geometry.
// Two meshes with equal digests are encoded as one geometry record with
// instance references.
func (m *StandardMesh) GeometryDigest() [blake2b.Size256]byte {
	h := newBlake2bDigest()
	h.u32(uint32(len(m.LODs)))
	for _, lod := range m.LODs {
		lod.digest(h)
	}
	return h.sum()
}

// BillboardAxis selects the axis a billboard rotates around.
type BillboardAxis uint32

const (
	BillboardAxisX BillboardAxis = 0
	BillboardAxisZ BillboardAxis = 1
	BillboardAxisY BillboardAxis = 2
)

// Billboard is a standard mesh that turns to face the camera, either around
// a single axis or freely.
type Billboard struct {
	StandardMesh

	Axis BillboardAxis

	// AllAxes rotates the billboard freely instead of around Axis.
	AllAxes bool
}

// MorphVertex is one animated vertex of a morph frame.
type MorphVertex struct {
	Position math32.Vector3
	Normal   math32.Vector3
}

// MorphLOD holds the per-frame vertex animation of one level of detail.
// Vertices[v][f] is animated vertex v in frame f; Indices[v] maps it back
// into the base LOD's vertex stream. A level without animation has no
// vertices.
type MorphLOD struct {
	Vertices [][]MorphVertex
	Unknown  uint8
	Indices  []uint16
}

// Morph is the vertex-animation block shared by MorphMesh and SingleMorph.
type Morph struct {
	FrameCount uint8
	Unknown    uint8
	LODs       []*MorphLOD

	// Reserved is a 48-byte trailing block of unknown content, round-tripped
	// verbatim.
	Reserved [48]byte
}

// MorphMesh is a standard mesh with per-vertex animation frames.
type MorphMesh struct {
	StandardMesh
	Morph
}

// VertexWeight binds a vertex to a secondary joint. Weight is the secondary
// joint's share, in [0, 1].
type VertexWeight struct {
	Joint  uint8
	Weight float32
}

// SingleJoint is one joint's slice of a single mesh's skinning data.
type SingleJoint struct {
	// Inverse is the joint's inverse world-bind matrix.
	Inverse math32.Matrix4

	// Bounds is the joint's 32-byte bounding block, round-tripped verbatim.
	Bounds [32]byte
}

// SingleLOD is the per-LOD skinning data of a single mesh: one weight entry
// per vertex, in vertex-stream order.
type SingleLOD struct {
	Weights []VertexWeight
}

// SingleMesh is a skinned mesh: a standard mesh plus per-joint bind data and
// per-vertex weights.
type SingleMesh struct {
	StandardMesh

	// JointIndices orders the mesh's joints; entries index the skeleton.
	JointIndices []uint8

	// Bounds is the mesh's 32-byte bounding block, round-tripped verbatim.
	Bounds [32]byte

	Joints []*SingleJoint

	// Skins holds one entry per LOD, parallel to LODs.
	Skins []*SingleLOD
}

// SingleMorph is a skinned mesh with per-vertex animation frames.
type SingleMorph struct {
	SingleMesh
	Morph
}

// PortalFlags are the per-portal flag bits of a sector portal.
type PortalFlags uint32

// Portal is one opening in a sector's hull. Normal and Distance describe the
// portal plane in stream axes; the encoder recomputes them from Vertices.
type Portal struct {
	Normal   math32.Vector3
	Distance float32
	Flags    PortalFlags
	Unknown0 float32
	Unknown1 float32
	Color    [4]uint8
	Vertices []math32.Vector3
}

// SectorFlags are the per-sector flag bits.
type SectorFlags uint32

// Sector is a convex cell of the visibility graph.
type Sector struct {
	Flags    SectorFlags
	Unknown  uint32
	Vertices []math32.Vector3
	Faces    []Face

	// Bounds is the sector's 32-byte bounding block, round-tripped verbatim.
	Bounds [32]byte

	Portals []*Portal
}

// Mirror is a reflective surface with its own reflection camera.
type Mirror struct {
	// Bounds is the mirror's 32-byte bounding block, round-tripped verbatim.
	Bounds [32]byte

	Unknown [4]float32

	// Reflection is the reflection camera matrix.
	Reflection math32.Matrix4

	BackColor math32.Vector3
	Unknown2  uint32
	FarPlane  float32

	Vertices []math32.Vector3
	Faces    []Face
}

// Occluder is an occlusion volume: a plain triangle hull.
type Occluder struct {
	Vertices []math32.Vector3
	Faces    []Face
}

// Dummy is a named helper box.
type Dummy struct {
	Min math32.Vector3
	Max math32.Vector3
}

// Target points at a set of other objects by their table indices.
type Target struct {
	Unknown uint16

	// Links are 1-based object table indices.
	Links []uint16
}

// SubLens is one glow sprite of a lens flare.
type SubLens struct {
	Unknown0 float32
	Unknown1 float32
	Material *Material
}

// Lens is a lens-flare effect: a list of glow sprites.
type Lens struct {
	Glows []SubLens
}

// Joint is a bone of a skinned mesh's skeleton.
type Joint struct {
	// Index is the joint's position within its skeleton.
	Index uint32
}

////////////////////////////////////////////////////////////////

// blake2bDigest accumulates geometry content into a BLAKE2b-256 hash.
type blake2bDigest struct {
	h   hash.Hash
	buf [12]byte
}

func newBlake2bDigest() *blake2bDigest {
	h, _ := blake2b.New256(nil)
	return &blake2bDigest{h: h}
}

func (d *blake2bDigest) u32(v uint32) {
	binary.LittleEndian.PutUint32(d.buf[:4], v)
	d.h.Write(d.buf[:4])
}

func (d *blake2bDigest) vec3(v math32.Vector3) {
	binary.LittleEndian.PutUint32(d.buf[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(d.buf[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(d.buf[8:], math.Float32bits(v.Z))
	d.h.Write(d.buf[:12])
}

func (d *blake2bDigest) sum() (s [blake2b.Size256]byte) {
	d.h.Sum(s[:0])
	return s
}

////////////////////////////////////////////////////////////////

// cornerKey identifies a unique position/normal/UV combination while
// splitting shared positions into stream vertices.
type cornerKey struct {
	pos  math32.Vector3
	norm math32.Vector3
	uv   math32.Vector2
}

// FaceCorner is one corner of an input triangle for BuildLOD: a position
// index into the positions slice plus the corner's normal and UV.
type FaceCorner struct {
	Position int
	Normal   math32.Vector3
	UV       math32.Vector2
}

// InputFace is one input triangle for BuildLOD.
type InputFace struct {
	Corners  [3]FaceCorner
	Material *Material
}

// BuildLOD assembles a LOD from indexed positions and per-corner attributes,
// splitting a position into multiple stream vertices when its corners
// disagree on normal or UV. Faces are grouped into submeshes by material,
// in first-use order.
func BuildLOD(positions []math32.Vector3, faces []InputFace) *LOD {
	lod := &LOD{}
	seen := make(map[cornerKey]uint16, len(positions))
	matOrder := []*Material{}
	matFaces := map[*Material][]Face{}
	for _, in := range faces {
		var f Face
		for i, c := range in.Corners {
			key := cornerKey{positions[c.Position], c.Normal, c.UV}
			idx, ok := seen[key]
			if !ok {
				idx = uint16(len(lod.Vertices))
				seen[key] = idx
				lod.Vertices = append(lod.Vertices, Vertex{
					Position: positions[c.Position],
					Normal:   c.Normal,
					UV:       c.UV,
				})
			}
			f[i] = idx
		}
		if _, ok := matFaces[in.Material]; !ok {
			matOrder = append(matOrder, in.Material)
		}
		matFaces[in.Material] = append(matFaces[in.Material], f)
	}
	for _, mat := range matOrder {
		lod.Submeshes = append(lod.Submeshes, Submesh{
			Faces:    matFaces[mat],
			Material: mat,
		})
	}
	return lod
}
