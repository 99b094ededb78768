package bin

import (
	"math"

	"cogentcore.org/core/math32"
	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
)

////////////////////////////////////////////////////////////////

// readMesh reads the payload of the object at 1-based table position index.
// The object's kind and visual kind select the layout.
func readMesh(fr *parse.BinaryReader, reg *fourds.Registry, obj *fourds.Object, index int) (failed bool) {
	switch obj.Kind {
	case fourds.KindVisual:
		switch obj.VisualKind {
		case fourds.VisualStandard:
			m := &fourds.StandardMesh{}
			obj.Mesh = m
			return readStandardMesh(fr, reg, m, index)
		case fourds.VisualBillboard:
			m := &fourds.Billboard{}
			obj.Mesh = m
			return readBillboard(fr, reg, m, index)
		case fourds.VisualMorph:
			m := &fourds.MorphMesh{}
			obj.Mesh = m
			return readStandardMesh(fr, reg, &m.StandardMesh, index) ||
				readMorph(fr, &m.Morph)
		case fourds.VisualSingle:
			m := &fourds.SingleMesh{}
			obj.Mesh = m
			return readSingleMesh(fr, reg, m, index)
		case fourds.VisualSingleMorph:
			m := &fourds.SingleMorph{}
			obj.Mesh = m
			return readSingleMesh(fr, reg, &m.SingleMesh, index) ||
				readMorph(fr, &m.Morph)
		case fourds.VisualLens:
			m := &fourds.Lens{}
			obj.Mesh = m
			return readLens(fr, reg, m, index)
		case fourds.VisualMirror:
			m := &fourds.Mirror{}
			obj.Mesh = m
			return readMirror(fr, m)
		default:
			return fr.Add(0, UnsupportedVariantError{Field: "visual kind", Value: uint8(obj.VisualKind)})
		}
	case fourds.KindSector:
		m := &fourds.Sector{}
		obj.Mesh = m
		return readSector(fr, m)
	case fourds.KindDummy:
		m := &fourds.Dummy{}
		obj.Mesh = m
		return readDummy(fr, m)
	case fourds.KindTarget:
		m := &fourds.Target{}
		obj.Mesh = m
		return readTarget(fr, m)
	case fourds.KindJoint:
		m := &fourds.Joint{}
		obj.Mesh = m
		return fr.Number(&m.Index)
	case fourds.KindOccluder:
		m := &fourds.Occluder{}
		obj.Mesh = m
		return readOccluder(fr, m)
	default:
		return fr.Add(0, UnsupportedVariantError{Field: "object kind", Value: uint8(obj.Kind)})
	}
}

////////////////////////////////////////////////////////////////

func readLOD(fr *parse.BinaryReader, reg *fourds.Registry, index int) (*fourds.LOD, bool) {
	lod := &fourds.LOD{}
	if fr.Number(&lod.DistanceSq) || fr.Number(&lod.Unknown) {
		return nil, true
	}

	var vertCount uint16
	if fr.Number(&vertCount) {
		return nil, true
	}
	lod.Vertices = make([]fourds.Vertex, vertCount)
	for i := range lod.Vertices {
		v := &lod.Vertices[i]
		if readVector3(fr, &v.Position) ||
			readVector3(fr, &v.Normal) ||
			readVector2(fr, &v.UV) {
			return nil, true
		}
	}

	var subCount uint8
	if fr.Number(&subCount) {
		return nil, true
	}
	lod.Submeshes = make([]fourds.Submesh, subCount)
	for i := range lod.Submeshes {
		sub := &lod.Submeshes[i]
		var faceCount uint16
		if fr.Number(&faceCount) {
			return nil, true
		}
		sub.Faces = make([]fourds.Face, faceCount)
		for j := range sub.Faces {
			if readFace(fr, &sub.Faces[j]) {
				return nil, true
			}
		}
		var matIndex uint16
		if fr.Number(&matIndex) {
			return nil, true
		}
		if matIndex > 0 {
			if sub.Material = reg.Material(matIndex); sub.Material == nil {
				return nil, fr.Add(0, UnresolvedReferenceError{Kind: "material", Index: matIndex, Object: index})
			}
		}
	}

	return lod, false
}

func writeLOD(fw *parse.BinaryWriter, reg *fourds.Registry, lod *fourds.LOD) (failed bool) {
	if fw.Number(lod.DistanceSq) || fw.Number(lod.Unknown) {
		return true
	}

	if fw.Number(uint16(len(lod.Vertices))) {
		return true
	}
	for i := range lod.Vertices {
		v := &lod.Vertices[i]
		if writeVector3(fw, v.Position) ||
			writeVector3(fw, v.Normal) ||
			writeVector2(fw, v.UV) {
			return true
		}
	}

	if fw.Number(uint8(len(lod.Submeshes))) {
		return true
	}
	for i := range lod.Submeshes {
		sub := &lod.Submeshes[i]
		if fw.Number(uint16(len(sub.Faces))) {
			return true
		}
		for _, f := range sub.Faces {
			if writeFace(fw, f) {
				return true
			}
		}
		if fw.Number(reg.MaterialIndex(sub.Material)) {
			return true
		}
	}

	return false
}

func readStandardMesh(fr *parse.BinaryReader, reg *fourds.Registry, m *fourds.StandardMesh, index int) (failed bool) {
	var instance uint16
	if fr.Number(&instance) {
		return true
	}
	if instance > 0 {
		if m.Instance = reg.Object(instance); m.Instance == nil {
			return fr.Add(0, UnresolvedReferenceError{Kind: "instance", Index: instance, Object: index})
		}
		return false
	}

	var lodCount uint8
	if fr.Number(&lodCount) {
		return true
	}
	m.LODs = make([]*fourds.LOD, lodCount)
	for i := range m.LODs {
		lod, bad := readLOD(fr, reg, index)
		if bad {
			return true
		}
		m.LODs[i] = lod
	}
	return false
}

func readBillboard(fr *parse.BinaryReader, reg *fourds.Registry, m *fourds.Billboard, index int) (failed bool) {
	if readStandardMesh(fr, reg, &m.StandardMesh, index) {
		return true
	}
	var axis uint32
	var singleAxis uint8
	if fr.Number(&axis) || fr.Number(&singleAxis) {
		return true
	}
	m.Axis = fourds.BillboardAxis(axis)
	// The wire stores the single-axis mode; the model stores free rotation.
	m.AllAxes = singleAxis == 0
	return false
}

func readMorph(fr *parse.BinaryReader, m *fourds.Morph) (failed bool) {
	var lodCount uint8
	if fr.Number(&m.FrameCount) || fr.Number(&lodCount) || fr.Number(&m.Unknown) {
		return true
	}

	m.LODs = make([]*fourds.MorphLOD, lodCount)
	for i := range m.LODs {
		lod := &fourds.MorphLOD{}
		m.LODs[i] = lod

		var vertCount uint16
		if fr.Number(&vertCount) {
			return true
		}
		if vertCount == 0 {
			continue
		}

		lod.Vertices = make([][]fourds.MorphVertex, vertCount)
		for v := range lod.Vertices {
			frames := make([]fourds.MorphVertex, m.FrameCount)
			for f := range frames {
				if readVector3(fr, &frames[f].Position) ||
					readVector3(fr, &frames[f].Normal) {
					return true
				}
			}
			lod.Vertices[v] = frames
		}

		if fr.Number(&lod.Unknown) {
			return true
		}

		lod.Indices = make([]uint16, vertCount)
		for v := range lod.Indices {
			if fr.Number(&lod.Indices[v]) {
				return true
			}
		}
	}

	return fr.Bytes(m.Reserved[:])
}

func writeMorph(fw *parse.BinaryWriter, m *fourds.Morph) (failed bool) {
	if fw.Number(m.FrameCount) || fw.Number(uint8(len(m.LODs))) || fw.Number(m.Unknown) {
		return true
	}

	for _, lod := range m.LODs {
		if fw.Number(uint16(len(lod.Vertices))) {
			return true
		}
		if len(lod.Vertices) == 0 {
			continue
		}

		for _, frames := range lod.Vertices {
			for f := range frames {
				if writeVector3(fw, frames[f].Position) ||
					writeVector3(fw, frames[f].Normal) {
					return true
				}
			}
		}

		if fw.Number(lod.Unknown) {
			return true
		}

		for _, idx := range lod.Indices {
			if fw.Number(idx) {
				return true
			}
		}
	}

	return fw.Bytes(m.Reserved[:])
}

func readSingleMesh(fr *parse.BinaryReader, reg *fourds.Registry, m *fourds.SingleMesh, index int) (failed bool) {
	if readStandardMesh(fr, reg, &m.StandardMesh, index) {
		return true
	}

	var jointCount uint8
	if fr.Number(&jointCount) || fr.Bytes(m.Bounds[:]) {
		return true
	}

	m.JointIndices = make([]uint8, jointCount)
	for i := range m.JointIndices {
		if fr.Number(&m.JointIndices[i]) {
			return true
		}
	}

	m.Joints = make([]*fourds.SingleJoint, jointCount)
	for i := range m.Joints {
		j := &fourds.SingleJoint{}
		if readMatrix(fr, &j.Inverse) || fr.Bytes(j.Bounds[:]) {
			return true
		}
		m.Joints[i] = j
	}

	m.Skins = make([]*fourds.SingleLOD, len(m.LODs))
	for i := range m.Skins {
		var vertCount uint32
		if fr.Number(&vertCount) {
			return true
		}
		skin := &fourds.SingleLOD{Weights: make([]fourds.VertexWeight, vertCount)}
		for v := range skin.Weights {
			var joint, weight uint8
			if fr.Number(&joint) || fr.Number(&weight) {
				return true
			}
			skin.Weights[v] = fourds.VertexWeight{
				Joint:  joint,
				Weight: 1 - float32(weight)/256,
			}
		}
		m.Skins[i] = skin
	}

	return false
}

// writeSingleMesh writes the skinning part of a single mesh. The decoder
// reads one skin block per level it read, so lodCount must be the number of
// levels the record writes: zero for an instance reference, base plus chain
// otherwise. A level without a skin of its own gets an empty block.
func writeSingleMesh(fw *parse.BinaryWriter, m *fourds.SingleMesh, lodCount int) (failed bool) {
	if fw.Number(uint8(len(m.JointIndices))) || fw.Bytes(m.Bounds[:]) {
		return true
	}

	for _, idx := range m.JointIndices {
		if fw.Number(idx) {
			return true
		}
	}

	for _, j := range m.Joints {
		if writeMatrix(fw, j.Inverse) || fw.Bytes(j.Bounds[:]) {
			return true
		}
	}

	for i := 0; i < lodCount; i++ {
		var weights []fourds.VertexWeight
		if i < len(m.Skins) {
			weights = m.Skins[i].Weights
		}
		if fw.Number(uint32(len(weights))) {
			return true
		}
		for _, wv := range weights {
			raw := math.Round(float64(1-wv.Weight) * 256)
			if raw < 0 {
				raw = 0
			} else if raw > 255 {
				raw = 255
			}
			if fw.Number(wv.Joint) || fw.Number(uint8(raw)) {
				return true
			}
		}
	}

	return false
}

////////////////////////////////////////////////////////////////

func readSector(fr *parse.BinaryReader, m *fourds.Sector) (failed bool) {
	var flags, unknown uint32
	var vertCount, faceCount uint32
	if fr.Number(&flags) || fr.Number(&unknown) ||
		fr.Number(&vertCount) || fr.Number(&faceCount) ||
		fr.Bytes(m.Bounds[:]) {
		return true
	}
	m.Flags = fourds.SectorFlags(flags)
	m.Unknown = unknown

	m.Vertices = make([]math32.Vector3, vertCount)
	for i := range m.Vertices {
		if readVector3Pad(fr, &m.Vertices[i]) {
			return true
		}
	}
	m.Faces = make([]fourds.Face, faceCount)
	for i := range m.Faces {
		if readFace(fr, &m.Faces[i]) {
			return true
		}
	}

	var portalCount uint8
	if fr.Number(&portalCount) {
		return true
	}
	m.Portals = make([]*fourds.Portal, portalCount)
	for i := range m.Portals {
		p := &fourds.Portal{}
		var portalVerts uint8
		var pflags uint32
		if fr.Number(&portalVerts) {
			return true
		}
		// The plane is stored in stream axes and recomputed on encode.
		if fr.Number(&p.Normal.X) || fr.Number(&p.Normal.Y) || fr.Number(&p.Normal.Z) ||
			fr.Number(&p.Distance) {
			return true
		}
		if fr.Number(&pflags) || fr.Number(&p.Unknown0) || fr.Number(&p.Unknown1) ||
			fr.Bytes(p.Color[:]) {
			return true
		}
		p.Flags = fourds.PortalFlags(pflags)
		p.Vertices = make([]math32.Vector3, portalVerts)
		for j := range p.Vertices {
			if readVector3Pad(fr, &p.Vertices[j]) {
				return true
			}
		}
		m.Portals[i] = p
	}

	return false
}

func writeSector(fw *parse.BinaryWriter, m *fourds.Sector) (failed bool) {
	if fw.Number(uint32(m.Flags)) || fw.Number(m.Unknown) ||
		fw.Number(uint32(len(m.Vertices))) || fw.Number(uint32(len(m.Faces))) ||
		fw.Bytes(m.Bounds[:]) {
		return true
	}

	for _, v := range m.Vertices {
		if writeVector3Pad(fw, v) {
			return true
		}
	}
	for _, f := range m.Faces {
		if writeFace(fw, f) {
			return true
		}
	}

	if fw.Number(uint8(len(m.Portals))) {
		return true
	}
	for _, p := range m.Portals {
		if fw.Number(uint8(len(p.Vertices))) {
			return true
		}
		normal, dist := portalPlane(p)
		if fw.Number(normal.X) || fw.Number(normal.Y) || fw.Number(normal.Z) ||
			fw.Number(dist) {
			return true
		}
		if fw.Number(uint32(p.Flags)) || fw.Number(p.Unknown0) || fw.Number(p.Unknown1) ||
			fw.Bytes(p.Color[:]) {
			return true
		}
		for _, v := range p.Vertices {
			if writeVector3Pad(fw, v) {
				return true
			}
		}
	}

	return false
}

// portalPlane recomputes the portal plane from the vertex loop with Newell's
// method. The result is in stream axes, matching the layout the plane is
// written in.
func portalPlane(p *fourds.Portal) (normal math32.Vector3, dist float32) {
	if len(p.Vertices) == 0 {
		return p.Normal, p.Distance
	}
	stream := make([]math32.Vector3, len(p.Vertices))
	for i, v := range p.Vertices {
		stream[i] = math32.Vec3(v.X, v.Z, v.Y)
	}
	var n math32.Vector3
	for i, cur := range stream {
		next := stream[(i+1)%len(stream)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	if n.Length() > 0 {
		n = n.Normal()
	}
	return n, -n.Dot(stream[0])
}

////////////////////////////////////////////////////////////////

func readMirror(fr *parse.BinaryReader, m *fourds.Mirror) (failed bool) {
	if fr.Bytes(m.Bounds[:]) {
		return true
	}
	for i := range m.Unknown {
		if fr.Number(&m.Unknown[i]) {
			return true
		}
	}
	if readMatrix(fr, &m.Reflection) {
		return true
	}
	// The back color is stored unswapped.
	if fr.Number(&m.BackColor.X) || fr.Number(&m.BackColor.Y) || fr.Number(&m.BackColor.Z) {
		return true
	}
	if fr.Number(&m.Unknown2) || fr.Number(&m.FarPlane) {
		return true
	}

	var vertCount, faceCount uint32
	if fr.Number(&vertCount) || fr.Number(&faceCount) {
		return true
	}
	m.Vertices = make([]math32.Vector3, vertCount)
	for i := range m.Vertices {
		if readVector3Pad(fr, &m.Vertices[i]) {
			return true
		}
	}
	m.Faces = make([]fourds.Face, faceCount)
	for i := range m.Faces {
		if readFace(fr, &m.Faces[i]) {
			return true
		}
	}

	return false
}

func writeMirror(fw *parse.BinaryWriter, m *fourds.Mirror) (failed bool) {
	if fw.Bytes(m.Bounds[:]) {
		return true
	}
	for _, u := range m.Unknown {
		if fw.Number(u) {
			return true
		}
	}
	if writeMatrix(fw, m.Reflection) {
		return true
	}
	if fw.Number(m.BackColor.X) || fw.Number(m.BackColor.Y) || fw.Number(m.BackColor.Z) {
		return true
	}
	if fw.Number(m.Unknown2) || fw.Number(m.FarPlane) {
		return true
	}

	if fw.Number(uint32(len(m.Vertices))) || fw.Number(uint32(len(m.Faces))) {
		return true
	}
	for _, v := range m.Vertices {
		if writeVector3Pad(fw, v) {
			return true
		}
	}
	for _, f := range m.Faces {
		if writeFace(fw, f) {
			return true
		}
	}

	return false
}

////////////////////////////////////////////////////////////////

func readOccluder(fr *parse.BinaryReader, m *fourds.Occluder) (failed bool) {
	var vertCount, faceCount uint32
	if fr.Number(&vertCount) || fr.Number(&faceCount) {
		return true
	}
	m.Vertices = make([]math32.Vector3, vertCount)
	for i := range m.Vertices {
		if readVector3Pad(fr, &m.Vertices[i]) {
			return true
		}
	}
	m.Faces = make([]fourds.Face, faceCount)
	for i := range m.Faces {
		if readFace(fr, &m.Faces[i]) {
			return true
		}
	}
	return false
}

func writeOccluder(fw *parse.BinaryWriter, m *fourds.Occluder) (failed bool) {
	if fw.Number(uint32(len(m.Vertices))) || fw.Number(uint32(len(m.Faces))) {
		return true
	}
	for _, v := range m.Vertices {
		if writeVector3Pad(fw, v) {
			return true
		}
	}
	for _, f := range m.Faces {
		if writeFace(fw, f) {
			return true
		}
	}
	return false
}

////////////////////////////////////////////////////////////////

func readDummy(fr *parse.BinaryReader, m *fourds.Dummy) (failed bool) {
	return readVector3Pad(fr, &m.Min) || readVector3Pad(fr, &m.Max)
}

func writeDummy(fw *parse.BinaryWriter, m *fourds.Dummy) (failed bool) {
	return writeVector3Pad(fw, m.Min) || writeVector3Pad(fw, m.Max)
}

func readTarget(fr *parse.BinaryReader, m *fourds.Target) (failed bool) {
	var count uint8
	if fr.Number(&m.Unknown) || fr.Number(&count) {
		return true
	}
	m.Links = make([]uint16, count)
	for i := range m.Links {
		if fr.Number(&m.Links[i]) {
			return true
		}
	}
	return false
}

func writeTarget(fw *parse.BinaryWriter, m *fourds.Target) (failed bool) {
	if fw.Number(m.Unknown) || fw.Number(uint8(len(m.Links))) {
		return true
	}
	for _, link := range m.Links {
		if fw.Number(link) {
			return true
		}
	}
	return false
}

func readLens(fr *parse.BinaryReader, reg *fourds.Registry, m *fourds.Lens, index int) (failed bool) {
	var count uint8
	if fr.Number(&count) {
		return true
	}
	m.Glows = make([]fourds.SubLens, count)
	for i := range m.Glows {
		g := &m.Glows[i]
		var matIndex uint16
		if fr.Number(&g.Unknown0) || fr.Number(&g.Unknown1) || fr.Number(&matIndex) {
			return true
		}
		if matIndex > 0 {
			if g.Material = reg.Material(matIndex); g.Material == nil {
				return fr.Add(0, UnresolvedReferenceError{Kind: "material", Index: matIndex, Object: index})
			}
		}
	}
	return false
}

func writeLens(fw *parse.BinaryWriter, reg *fourds.Registry, m *fourds.Lens) (failed bool) {
	if fw.Number(uint8(len(m.Glows))) {
		return true
	}
	for i := range m.Glows {
		g := &m.Glows[i]
		if fw.Number(g.Unknown0) || fw.Number(g.Unknown1) ||
			fw.Number(reg.MaterialIndex(g.Material)) {
			return true
		}
	}
	return false
}
