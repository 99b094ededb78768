package fourds

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jointObject(name string, parent *Object, index uint32, pos math32.Vector3) *Object {
	obj := NewObject(KindJoint, name, parent)
	obj.Position = pos
	obj.Mesh = &Joint{Index: index}
	return obj
}

func TestBuildSkeletonsChain(t *testing.T) {
	body := NewObject(KindVisual, "body01", nil)
	root := jointObject("hips", body, 0, math32.Vec3(0, 1, 0))
	mid := jointObject("spine", root, 1, math32.Vec3(0, 0.5, 0))
	tip := jointObject("head", mid, 2, math32.Vec3(0, 0.4, 0))

	skeletons := BuildSkeletons([]*Object{body, root, mid, tip})
	require.Len(t, skeletons, 1)
	sk := skeletons[0]
	assert.Same(t, body, sk.Owner)
	require.Len(t, sk.Bones, 3)

	hips, spine, head := sk.Bones[0], sk.Bones[1], sk.Bones[2]
	assert.Same(t, root, hips.Object)
	assert.Nil(t, hips.Parent)
	assert.Same(t, hips, spine.Parent)
	assert.Same(t, spine, head.Parent)
	require.Len(t, hips.Children(), 1)
	assert.Same(t, spine, hips.Children()[0])

	// World positions accumulate down the chain.
	assert.InDelta(t, 1, hips.Head.Y, 1e-6)
	assert.InDelta(t, 1.5, spine.Head.Y, 1e-6)
	assert.InDelta(t, 1.9, head.Head.Y, 1e-6)

	// A bone ends where its first child begins.
	assert.Equal(t, spine.Head, hips.Tail)
	assert.Equal(t, head.Head, spine.Tail)

	// The leaf extrapolates along the incoming direction.
	assert.InDelta(t, 1.95, head.Tail.Y, 1e-6)
	assert.InDelta(t, 0, head.Tail.X, 1e-6)
}

func TestBuildSkeletonsRootlessJoint(t *testing.T) {
	lone := jointObject("lone", nil, 0, math32.Vec3(0, 0, 0))

	skeletons := BuildSkeletons([]*Object{lone})
	require.Len(t, skeletons, 1)
	assert.Nil(t, skeletons[0].Owner)
	require.Len(t, skeletons[0].Bones, 1)

	// A parentless leaf falls back to extrapolating upward.
	bone := skeletons[0].Bones[0]
	assert.InDelta(t, 0.05, bone.Tail.Y, 1e-6)
}

func TestBuildSkeletonsCollapsedBone(t *testing.T) {
	body := NewObject(KindVisual, "body01", nil)
	root := jointObject("root", body, 0, math32.Vec3(0, 0, 0))
	// The child sits on top of its parent; the parent's bone would collapse.
	stub := jointObject("stub", root, 1, math32.Vec3(0, 0.001, 0))

	skeletons := BuildSkeletons([]*Object{body, root, stub})
	require.Len(t, skeletons, 1)
	bone := skeletons[0].Bones[0]
	length := bone.Tail.Sub(bone.Head).Length()
	assert.InDelta(t, 0.01, length, 1e-6)
}

func TestBuildSkeletonsSiblingLeafDirection(t *testing.T) {
	body := NewObject(KindVisual, "body01", nil)
	root := jointObject("shoulders", body, 0, math32.Vec3(0, 1, 0))
	first := jointObject("neck", root, 1, math32.Vec3(0, 1, 0))
	side := jointObject("arm", root, 2, math32.Vec3(1, 0, 0))

	skeletons := BuildSkeletons([]*Object{body, root, first, side})
	require.Len(t, skeletons, 1)
	require.Len(t, skeletons[0].Bones, 3)

	// A leaf extrapolates along the parent's direction toward its first
	// child, not along its own offset.
	arm := skeletons[0].Bones[2]
	assert.Same(t, side, arm.Object)
	assert.InDelta(t, 1, arm.Tail.X, 1e-6)
	assert.InDelta(t, 1.05, arm.Tail.Y, 1e-6)
	assert.InDelta(t, 0, arm.Tail.Z, 1e-6)
}

func TestBuildSkeletonsTwoOwners(t *testing.T) {
	bodyA := NewObject(KindVisual, "bodyA", nil)
	bodyB := NewObject(KindVisual, "bodyB", nil)
	jA := jointObject("a", bodyA, 0, math32.Vec3(0, 0, 0))
	jB := jointObject("b", bodyB, 0, math32.Vec3(0, 0, 0))

	skeletons := BuildSkeletons([]*Object{bodyA, bodyB, jA, jB})
	require.Len(t, skeletons, 2)
	assert.Same(t, bodyA, skeletons[0].Owner)
	assert.Same(t, bodyB, skeletons[1].Owner)
}
