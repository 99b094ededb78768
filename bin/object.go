package bin

import (
	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
)

// validKind reports whether the codec knows the object kind.
func validKind(kind fourds.ObjectKind) bool {
	switch kind {
	case fourds.KindVisual, fourds.KindSector, fourds.KindDummy,
		fourds.KindTarget, fourds.KindJoint, fourds.KindOccluder:
		return true
	}
	return false
}

// readObject reads the object record at 1-based table position index,
// resolving the parent reference against the entries already in reg. The
// returned object is partially populated when failed is true; its Name, if
// set, improves the error report.
func readObject(fr *parse.BinaryReader, reg *fourds.Registry, index int) (obj *fourds.Object, failed bool) {
	obj = &fourds.Object{}

	var kind uint8
	if fr.Number(&kind) {
		return obj, true
	}
	obj.Kind = fourds.ObjectKind(kind)
	if !validKind(obj.Kind) {
		return obj, fr.Add(0, UnsupportedVariantError{Field: "object kind", Value: kind})
	}

	if obj.Kind == fourds.KindVisual {
		var visualKind uint8
		var visualFlags uint16
		if fr.Number(&visualKind) || fr.Number(&visualFlags) {
			return obj, true
		}
		obj.VisualKind = fourds.VisualKind(visualKind)
		obj.VisualFlags = fourds.VisualFlags(visualFlags)
	}

	var parent uint16
	if fr.Number(&parent) {
		return obj, true
	}

	if readVector3(fr, &obj.Position) ||
		readQuat(fr, &obj.Rotation) ||
		readVector3(fr, &obj.Scale) {
		return obj, true
	}

	var culling uint8
	if fr.Number(&obj.Unknown) || fr.Number(&culling) {
		return obj, true
	}
	obj.Culling = fourds.CullingFlags(culling)

	if readString(fr, &obj.Name) || readString(fr, &obj.Properties) {
		return obj, true
	}

	// The table is in strict pre-order, so a parent reference always points
	// at an entry already read.
	if parent > 0 {
		p := reg.Object(parent)
		if p == nil {
			return obj, fr.Add(0, UnresolvedReferenceError{Kind: "object", Index: parent, Object: index})
		}
		obj.SetParent(p)
	}

	return obj, readMesh(fr, reg, obj, index)
}

// writeObject writes the record header of obj; the payload is written by the
// encoder, which carries the instancing plan.
func writeObjectHeader(fw *parse.BinaryWriter, reg *fourds.Registry, obj *fourds.Object) (failed bool) {
	if fw.Number(uint8(obj.Kind)) {
		return true
	}
	if obj.Kind == fourds.KindVisual {
		if fw.Number(uint8(obj.VisualKind)) || fw.Number(uint16(obj.VisualFlags)) {
			return true
		}
	}

	if fw.Number(reg.ObjectIndex(obj.Parent())) {
		return true
	}

	if writeVector3(fw, obj.Position) ||
		writeQuat(fw, obj.Rotation) ||
		writeVector3(fw, obj.Scale) {
		return true
	}

	if fw.Number(obj.Unknown) || fw.Number(uint8(obj.Culling)) {
		return true
	}

	return writeString(fw, obj.Name) || writeString(fw, obj.Properties)
}
