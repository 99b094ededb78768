package fourds

import (
	"cogentcore.org/core/math32"
)

const (
	// leafBoneLength is how far a leaf bone's tail is extrapolated past its
	// head, along the direction the bone chain was heading.
	leafBoneLength = 0.05

	// minBoneLength is the shortest bone the reconstruction accepts. Bones
	// that come out shorter are stretched to collapsedBoneLength.
	minBoneLength       = 1e-2
	collapsedBoneLength = 0.01
)

// Bone is one reconstructed bone of a Skeleton.
type Bone struct {
	// Object is the joint object the bone was built from.
	Object *Object

	// Index is the joint's index within the skeleton, from the wire payload.
	Index uint32

	// World is the bone's rest transform in the skeleton owner's space.
	World math32.Matrix4

	// Head and Tail are the bone's endpoints in the owner's space. Head is
	// the joint's position; Tail is the first child joint's position, or an
	// extrapolated point for leaf bones.
	Head math32.Vector3
	Tail math32.Vector3

	Parent   *Bone
	children []*Bone
}

// Children returns the bone's child bones, in table order.
func (b *Bone) Children() []*Bone {
	list := make([]*Bone, len(b.children))
	copy(list, b.children)
	return list
}

// Skeleton is the bone hierarchy reconstructed from the joint objects under
// one non-joint owner.
type Skeleton struct {
	// Owner is the non-joint object the skeleton's root joints hang off.
	// Nil when the root joints have no parent.
	Owner *Object

	// Bones lists every bone of the skeleton, in object table order.
	Bones []*Bone
}

// BuildSkeletons reconstructs bone hierarchies from the joint objects in
// objects, which must be in table order so parents precede children. One
// skeleton is created per distinct owner, lazily, in first-joint order.
//
// The pass runs in two stages. The first walks the joints accumulating world
// transforms down each joint chain and recording parent/child links. The
// second derives each bone's head and tail: the head is the world position,
// the tail the first child's head. Leaf bones extrapolate the tail along the
// parent's direction toward its first child (+Y for parentless joints), and
// bones that collapse below minBoneLength are
// stretched to a fixed minimum so downstream consumers never see a
// zero-length bone.
func BuildSkeletons(objects []*Object) []*Skeleton {
	var skeletons []*Skeleton
	byOwner := make(map[*Object]*Skeleton)
	bones := make(map[*Object]*Bone)
	skOf := make(map[*Bone]*Skeleton)

	for _, obj := range objects {
		if obj.Kind != KindJoint {
			continue
		}
		bone := &Bone{Object: obj}
		if j, ok := obj.Mesh.(*Joint); ok {
			bone.Index = j.Index
		}
		local := obj.Transform()
		var sk *Skeleton
		if parent := bones[obj.Parent()]; parent != nil {
			bone.World.MulMatrices(&parent.World, &local)
			bone.Parent = parent
			parent.children = append(parent.children, bone)
			sk = skOf[parent]
		} else {
			bone.World = local
			owner := obj.Parent()
			sk = byOwner[owner]
			if sk == nil {
				sk = &Skeleton{Owner: owner}
				byOwner[owner] = sk
				skeletons = append(skeletons, sk)
			}
		}
		sk.Bones = append(sk.Bones, bone)
		skOf[bone] = sk
		bones[obj] = bone
	}

	for _, sk := range skeletons {
		for _, bone := range sk.Bones {
			bone.Head = math32.Vec3(bone.World[12], bone.World[13], bone.World[14])
		}
		for _, bone := range sk.Bones {
			if len(bone.children) > 0 {
				bone.Tail = bone.children[0].Head
			} else {
				dir := math32.Vec3(0, 1, 0)
				if p := bone.Parent; p != nil {
					d := p.children[0].Head.Sub(p.Head)
					if d.Length() > 0 {
						dir = d.Normal()
					}
				}
				bone.Tail = bone.Head.Add(dir.MulScalar(leafBoneLength))
			}
			v := bone.Tail.Sub(bone.Head)
			if v.Length() < minBoneLength {
				dir := math32.Vec3(0, 1, 0)
				if v.Length() > 0 {
					dir = v.Normal()
				}
				bone.Tail = bone.Head.Add(dir.MulScalar(collapsedBoneLength))
			}
		}
	}
	return skeletons
}
