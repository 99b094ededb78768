// The fourds package handles the decoding, encoding, and manipulation of
// 4DS scene-graph data structures.
//
// A 4DS file holds a material table and a flat, parent-indexed table of
// scene objects. This package represents that content as a Scene: a list of
// Materials and a list of Objects in table order, where each Object may also
// be navigated as a tree through its Parent and Children accessors.
//
// Each Object carries a kind-specific mesh payload. Every payload type
// implements the Mesh interface, and the set of payload types is closed:
// codecs match on the concrete type exhaustively.
//
// Scenes are decoded from and encoded to the native binary format by the
// "bin" sub-package. Scenes can also be built manually and handed to the
// encoder through the Provider interface, which Scene itself implements.
package fourds

import (
	"errors"
	"fmt"
	"image"

	"cogentcore.org/core/math32"
)

////////////////////////////////////////////////////////////////

// ObjectKind identifies the top-level kind of a scene object.
type ObjectKind uint8

const (
	KindVisual   ObjectKind = 1
	KindSector   ObjectKind = 5
	KindDummy    ObjectKind = 6
	KindTarget   ObjectKind = 7
	KindJoint    ObjectKind = 10
	KindOccluder ObjectKind = 12
)

func (k ObjectKind) String() string {
	switch k {
	case KindVisual:
		return "Visual"
	case KindSector:
		return "Sector"
	case KindDummy:
		return "Dummy"
	case KindTarget:
		return "Target"
	case KindJoint:
		return "Joint"
	case KindOccluder:
		return "Occluder"
	}
	return fmt.Sprintf("ObjectKind(%d)", uint8(k))
}

// VisualKind identifies the payload layout of a Visual object.
type VisualKind uint8

const (
	VisualStandard    VisualKind = 0
	VisualSingle      VisualKind = 2
	VisualSingleMorph VisualKind = 3
	VisualBillboard   VisualKind = 4
	VisualMorph       VisualKind = 5
	VisualLens        VisualKind = 6
	VisualMirror      VisualKind = 8
)

func (k VisualKind) String() string {
	switch k {
	case VisualStandard:
		return "StandardMesh"
	case VisualSingle:
		return "SingleMesh"
	case VisualSingleMorph:
		return "SingleMorph"
	case VisualBillboard:
		return "Billboard"
	case VisualMorph:
		return "Morph"
	case VisualLens:
		return "Lens"
	case VisualMirror:
		return "Mirror"
	}
	return fmt.Sprintf("VisualKind(%d)", uint8(k))
}

// VisualFlags are the per-object rendering flags of a Visual object.
type VisualFlags uint16

const (
	VisualFlagDepthBias      VisualFlags = 0x0100
	VisualFlagDynamicShadows VisualFlags = 0x0200
	VisualFlagUnknown0       VisualFlags = 0x0400
	VisualFlagUnknown1       VisualFlags = 0x0800
	VisualFlagUnknown2       VisualFlags = 0x1000
	VisualFlagDecals         VisualFlags = 0x2000
	VisualFlagNoFog          VisualFlags = 0x8000
)

// CullingFlags control whether and how an object participates in culling.
type CullingFlags uint8

const (
	CullingEnabled  CullingFlags = 0x01
	CullingUnknown1 CullingFlags = 0x04
	CullingUnknown2 CullingFlags = 0x08
	CullingUnknown3 CullingFlags = 0x10
	CullingUnknown4 CullingFlags = 0x20
)

////////////////////////////////////////////////////////////////

// Scene represents the content of one 4DS file.
type Scene struct {
	// Timestamp is the file's creation stamp, a Windows FILETIME value.
	// It is round-tripped verbatim and not otherwise interpreted.
	Timestamp uint64

	// Materials is the material table in table order.
	Materials []*Material

	// Objects is the object table in table order. The table is in strict
	// pre-order: an object always precedes its descendants.
	Objects []*Object

	// Skeletons holds the bone hierarchies reconstructed from the scene's
	// joint objects. Populated by the decoder; derived, never encoded.
	Skeletons []*Skeleton
}

// Roots returns the objects with no parent, in table order.
func (s *Scene) Roots() []*Object {
	roots := make([]*Object, 0, 4)
	for _, obj := range s.Objects {
		if obj.parent == nil {
			roots = append(roots, obj)
		}
	}
	return roots
}

// Children returns the child objects of obj, in table order.
func (s *Scene) Children(obj *Object) []*Object {
	return obj.Children()
}

// AddMaterial appends a material to the material table.
func (s *Scene) AddMaterial(mat *Material) {
	s.Materials = append(s.Materials, mat)
}

// AddObject appends an object to the object table.
func (s *Scene) AddObject(obj *Object) {
	s.Objects = append(s.Objects, obj)
}

////////////////////////////////////////////////////////////////

// Object represents a single scene object. Its identity within a file is
// its 1-based position in the object table.
type Object struct {
	// Kind indicates the object's kind, and thereby its payload type.
	Kind ObjectKind

	// VisualKind and VisualFlags are meaningful only when Kind is Visual.
	VisualKind  VisualKind
	VisualFlags VisualFlags

	// Local transform relative to the parent object.
	Position math32.Vector3
	Rotation math32.Quat
	Scale    math32.Vector3

	// Unknown is a 32-bit field of unknown meaning, round-tripped verbatim.
	Unknown uint32

	Culling CullingFlags

	// Name is the object's name, at most 255 bytes of ASCII.
	Name string

	// Properties is the free-text user-property block: CRLF-joined lines,
	// at most 255 bytes total.
	Properties string

	// Mesh is the kind-specific payload.
	Mesh Mesh

	// IsLOD marks an object that acts as a level-of-detail child of its
	// parent. LOD objects are folded into the parent's LOD chain on encode
	// and never appear in the object table themselves.
	IsLOD bool

	children []*Object
	parent   *Object
}

// NewObject creates an object of the given kind with an identity transform
// and an optional parent.
func NewObject(kind ObjectKind, name string, parent *Object) *Object {
	obj := &Object{
		Kind:  kind,
		Name:  name,
		Scale: math32.Vec3(1, 1, 1),
	}
	obj.Rotation.SetIdentity()
	if parent != nil {
		obj.SetParent(parent)
	}
	return obj
}

func (obj *Object) addChild(child *Object) {
	obj.children = append(obj.children, child)
}

func (obj *Object) removeChild(child *Object) {
	for i, ch := range obj.children {
		if ch == child {
			obj.children = append(obj.children[:i], obj.children[i+1:]...)
			return
		}
	}
}

// Parent returns the parent of the object. Can return nil if the object
// has no parent.
func (obj *Object) Parent() *Object {
	return obj.parent
}

// SetParent sets the parent of the object. The parent can be set to nil.
// The function will error if the parent is a descendant of the object.
func (obj *Object) SetParent(parent *Object) error {
	if obj.parent == parent {
		return nil
	}
	if parent == obj {
		return fmt.Errorf("attempt to set %s as its own parent", obj.Name)
	}
	if parent != nil && parent.IsDescendantOf(obj) {
		return errors.New("attempt to set parent would result in circular reference")
	}
	if obj.parent != nil {
		obj.parent.removeChild(obj)
	}
	obj.parent = parent
	if parent != nil {
		parent.addChild(obj)
	}
	return nil
}

// Children returns a list of children of the object.
func (obj *Object) Children() []*Object {
	list := make([]*Object, len(obj.children))
	copy(list, obj.children)
	return list
}

// IsAncestorOf returns whether the object is an ancestor of another object.
func (obj *Object) IsAncestorOf(descendant *Object) bool {
	if descendant != nil {
		return descendant.IsDescendantOf(obj)
	}
	return false
}

// IsDescendantOf returns whether the object is a descendant of another
// object.
func (obj *Object) IsDescendantOf(ancestor *Object) bool {
	parent := obj.parent
	for parent != nil {
		if parent == ancestor {
			return true
		}
		parent = parent.parent
	}
	return false
}

// JointAncestor returns the nearest ancestor of kind Joint, or nil.
func (obj *Object) JointAncestor() *Object {
	parent := obj.parent
	for parent != nil {
		if parent.Kind == KindJoint {
			return parent
		}
		parent = parent.parent
	}
	return nil
}

// Transform returns the object's local transform as a matrix.
func (obj *Object) Transform() math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(obj.Position, obj.Rotation, obj.Scale)
	return m
}

// String implements fmt.Stringer by returning the Name of the object, or
// the kind if the name is empty.
func (obj *Object) String() string {
	if obj.Name == "" {
		return obj.Kind.String()
	}
	return obj.Name
}

////////////////////////////////////////////////////////////////

// Provider supplies an entity graph to the encoder, and receives decoded
// entities from the decoder, one per table entry, in table order. Scene
// implements Provider.
type Provider interface {
	// Roots returns the root entities, in encoding order.
	Roots() []*Object

	// Children returns the children of obj, in encoding order.
	Children(obj *Object) []*Object

	// AddMaterial receives one decoded material table entry.
	AddMaterial(mat *Material)

	// AddObject receives one decoded object table entry.
	AddObject(obj *Object)
}

// TextureResolver maps a texture file name, as stored in a material table
// entry, to image data. Implementations report unresolvable names with an
// error; the decoder treats that as a warning, not a failure.
type TextureResolver interface {
	Resolve(name string) (image.Image, error)
}
