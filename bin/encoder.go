package bin

import (
	"fmt"
	"io"
	"time"

	"github.com/anaminus/parse"
	"github.com/ls3dtools/fourds"
	"github.com/ls3dtools/fourds/errors"
)

// Encoder encodes a fourds.Provider into a stream of bytes.
type Encoder struct {
	// Timestamp overrides the file creation stamp, a Windows FILETIME
	// value. When zero, the stamp is synthesized from the current time, or
	// taken from the provider when it is a Scene with a stamp of its own.
	Timestamp uint64
}

// objectRecord is the encoding plan for one object table entry. The plan is
// built for the whole table before any payload is written, because geometry
// instancing can move a LOD chain from a later entry onto its owner.
type objectRecord struct {
	obj   *fourds.Object
	index uint16

	// std is the standard-mesh part of the payload, when the object has
	// one.
	std *fourds.StandardMesh

	// instance is the wire instance reference; 0 means the record owns its
	// geometry.
	instance uint16

	// effective is the record's own geometry: the payload's levels followed
	// by the levels folded in from LOD-flagged children.
	effective []*fourds.LOD

	// base and chain are the owned geometry as written: the base level and
	// the lower-detail levels that follow it. A donated chain from a later
	// instance lands here.
	base  *fourds.LOD
	chain []*fourds.LOD
}

func (rec *objectRecord) lods() []*fourds.LOD {
	if rec.base == nil {
		return nil
	}
	return append([]*fourds.LOD{rec.base}, rec.chain...)
}

// wireLODCount is the number of levels the record writes. An instance
// reference writes none; skin blocks must stay parallel to this count.
func (rec *objectRecord) wireLODCount() int {
	if rec.instance != 0 || rec.base == nil {
		return 0
	}
	return 1 + len(rec.chain)
}

// Encode writes the entity graph supplied by p to w.
func (e Encoder) Encode(w io.Writer, p fourds.Provider) (warn, err error) {
	if w == nil {
		return nil, fmt.Errorf("nil writer")
	}
	if p == nil {
		return nil, fmt.Errorf("nil provider")
	}

	reg := fourds.NewRegistry()
	var warns errors.Errors

	// A Scene's material table is kept verbatim, unused entries included, so
	// a decoded file re-encodes with the same table. Other providers get a
	// table built in first-use order.
	if s, ok := p.(*fourds.Scene); ok {
		for _, mat := range s.Materials {
			reg.AddMaterial(mat)
		}
	}

	records, err := plan(p, reg)
	if err != nil {
		return nil, err
	}
	collectMaterials(reg, records)

	if len(reg.Materials()) > 0xFFFF {
		return nil, fmt.Errorf("material table exceeds %d entries", 0xFFFF)
	}

	fw := parse.NewBinaryWriter(w)

	if fw.Bytes([]byte(fourdsSig)) ||
		fw.Number(uint16(fourdsVersion)) ||
		fw.Number(e.timestamp(p)) {
		return nil, encodeError(fw, nil)
	}

	if fw.Number(uint16(len(reg.Materials()))) {
		return nil, encodeError(fw, nil)
	}
	for _, mat := range reg.Materials() {
		if writeMaterial(fw, mat) {
			return nil, encodeError(fw, nil)
		}
	}

	if fw.Number(uint16(len(records))) {
		return nil, encodeError(fw, nil)
	}
	for _, rec := range records {
		if writeRecord(fw, reg, rec) {
			err := encodeError(fw, nil)
			return warns.Return(), ObjectError{Index: int(rec.index), Name: rec.obj.Name, Cause: err}
		}
	}

	if fw.Number(uint8(trailerByte)) {
		return warns.Return(), encodeError(fw, nil)
	}

	return warns.Return(), nil
}

func (e Encoder) timestamp(p fourds.Provider) uint64 {
	if e.Timestamp != 0 {
		return e.Timestamp
	}
	if s, ok := p.(*fourds.Scene); ok && s.Timestamp != 0 {
		return s.Timestamp
	}
	return uint64(time.Now().Unix())*filetimeTick + filetimeEpoch
}

// plan flattens the provider's trees into table order and resolves geometry
// instancing. LOD objects are folded into their parent's chain and never
// become table entries; their own subtrees are not walked.
func plan(p fourds.Provider, reg *fourds.Registry) ([]*objectRecord, error) {
	var objects []*fourds.Object
	var walk func(obj *fourds.Object)
	walk = func(obj *fourds.Object) {
		if obj.IsLOD {
			return
		}
		objects = append(objects, obj)
		reg.AddObject(obj)
		for _, child := range p.Children(obj) {
			walk(child)
		}
	}
	for _, root := range p.Roots() {
		walk(root)
	}
	if len(objects) > 0xFFFF {
		return nil, fmt.Errorf("object table exceeds %d entries", 0xFFFF)
	}

	records := make([]*objectRecord, len(objects))
	for i, obj := range objects {
		records[i] = &objectRecord{
			obj:   obj,
			index: uint16(i + 1),
			std:   standardPart(obj.Mesh),
		}
	}

	for _, rec := range records {
		if rec.std == nil {
			continue
		}
		effective := append([]*fourds.LOD{}, rec.std.LODs...)
		effective = append(effective, lodChain(p, rec.obj)...)
		rec.effective = effective

		if rec.std.Instance != nil {
			owner := reg.ObjectIndex(rec.std.Instance)
			if owner == 0 || owner >= rec.index {
				return nil, UnresolvedReferenceError{Kind: "instance", Index: owner, Object: int(rec.index)}
			}
			rec.instance = owner
			donateChain(records[owner-1], effective)
			continue
		}

		if len(effective) == 0 {
			continue
		}

		// Records with identical base geometry share one copy; the first
		// one in table order owns it.
		digest := effective[0].Digest()
		owner := reg.Instance(digest, rec.index)
		if owner != 0 {
			rec.instance = owner
			donateChain(records[owner-1], effective)
			continue
		}
		rec.base = effective[0]
		rec.chain = effective[1:]
	}

	return records, nil
}

// donateChain hands an instance's lower-detail levels to the owning record
// when the owner has none of its own. The first donor wins.
func donateChain(owner *objectRecord, effective []*fourds.LOD) {
	if owner.std == nil || owner.base == nil {
		return
	}
	if len(owner.chain) == 0 && len(effective) > 1 {
		owner.chain = effective[1:]
	}
}

// lodChain collects the lower-detail levels hanging off obj as LOD-flagged
// children, one child per level, nested level by level.
func lodChain(p fourds.Provider, obj *fourds.Object) []*fourds.LOD {
	var chain []*fourds.LOD
	level := obj
	for level != nil {
		var next *fourds.Object
		for _, child := range p.Children(level) {
			if child.IsLOD {
				next = child
				break
			}
		}
		if next == nil {
			break
		}
		if std := standardPart(next.Mesh); std != nil {
			chain = append(chain, std.LODs...)
		}
		level = next
	}
	return chain
}

// standardPart returns the standard-mesh part of a payload, or nil when the
// payload has none.
func standardPart(m fourds.Mesh) *fourds.StandardMesh {
	switch m := m.(type) {
	case *fourds.StandardMesh:
		return m
	case *fourds.Billboard:
		return &m.StandardMesh
	case *fourds.MorphMesh:
		return &m.StandardMesh
	case *fourds.SingleMesh:
		return &m.StandardMesh
	case *fourds.SingleMorph:
		return &m.StandardMesh
	}
	return nil
}

// collectMaterials builds the material table in first-use order: records in
// table order, each record's materials in the order its payload writes
// them.
func collectMaterials(reg *fourds.Registry, records []*objectRecord) {
	for _, rec := range records {
		for _, lod := range rec.effective {
			for i := range lod.Submeshes {
				if mat := lod.Submeshes[i].Material; mat != nil {
					reg.AddMaterial(mat)
				}
			}
		}
		if lens, ok := rec.obj.Mesh.(*fourds.Lens); ok {
			for i := range lens.Glows {
				if mat := lens.Glows[i].Material; mat != nil {
					reg.AddMaterial(mat)
				}
			}
		}
	}
}

func writeRecord(fw *parse.BinaryWriter, reg *fourds.Registry, rec *objectRecord) (failed bool) {
	if writeObjectHeader(fw, reg, rec.obj) {
		return true
	}

	switch m := rec.obj.Mesh.(type) {
	case *fourds.StandardMesh:
		return writeStandardRecord(fw, reg, rec)
	case *fourds.Billboard:
		if writeStandardRecord(fw, reg, rec) {
			return true
		}
		var singleAxis uint8
		if !m.AllAxes {
			singleAxis = 1
		}
		return fw.Number(uint32(m.Axis)) || fw.Number(singleAxis)
	case *fourds.MorphMesh:
		return writeStandardRecord(fw, reg, rec) || writeMorph(fw, &m.Morph)
	case *fourds.SingleMesh:
		return writeStandardRecord(fw, reg, rec) || writeSingleMesh(fw, m, rec.wireLODCount())
	case *fourds.SingleMorph:
		return writeStandardRecord(fw, reg, rec) ||
			writeSingleMesh(fw, &m.SingleMesh, rec.wireLODCount()) ||
			writeMorph(fw, &m.Morph)
	case *fourds.Sector:
		return writeSector(fw, m)
	case *fourds.Mirror:
		return writeMirror(fw, m)
	case *fourds.Occluder:
		return writeOccluder(fw, m)
	case *fourds.Dummy:
		return writeDummy(fw, m)
	case *fourds.Target:
		return writeTarget(fw, m)
	case *fourds.Lens:
		return writeLens(fw, reg, m)
	case *fourds.Joint:
		return fw.Number(m.Index)
	case nil:
		return fw.Add(0, fmt.Errorf("object has no payload"))
	default:
		return fw.Add(0, fmt.Errorf("unhandled payload type %T", m))
	}
}

// writeStandardRecord writes the standard-mesh part of a payload: the
// instance reference, or the owned LOD levels.
func writeStandardRecord(fw *parse.BinaryWriter, reg *fourds.Registry, rec *objectRecord) (failed bool) {
	if fw.Number(rec.instance) {
		return true
	}
	if rec.instance != 0 {
		return false
	}

	lods := rec.lods()
	if fw.Number(uint8(len(lods))) {
		return true
	}
	for _, lod := range lods {
		if writeLOD(fw, reg, lod) {
			return true
		}
	}
	return false
}
