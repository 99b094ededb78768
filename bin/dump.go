package bin

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/ls3dtools/fourds"
)

// Dump writes to w a readable representation of the scene decoded from r.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if w == nil {
		return nil, fmt.Errorf("nil writer")
	}

	scene, warn, err := d.Decode(r)
	if err != nil {
		return warn, err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Timestamp: %d", scene.Timestamp)
	fmt.Fprintf(bw, "\nMaterials: %d {", len(scene.Materials))
	for i, mat := range scene.Materials {
		dumpMaterial(bw, 1, i+1, mat)
	}
	fmt.Fprint(bw, "\n}")
	fmt.Fprintf(bw, "\nObjects: %d {", len(scene.Objects))
	index := map[*fourds.Object]int{}
	for i, obj := range scene.Objects {
		index[obj] = i + 1
		dumpObject(bw, 1, i+1, obj, index)
	}
	fmt.Fprint(bw, "\n}")
	fmt.Fprintf(bw, "\nSkeletons: %d {", len(scene.Skeletons))
	for _, sk := range scene.Skeletons {
		dumpNewline(bw, 1)
		if sk.Owner != nil {
			fmt.Fprintf(bw, "owner %q: %d bones", sk.Owner.Name, len(sk.Bones))
		} else {
			fmt.Fprintf(bw, "world: %d bones", len(sk.Bones))
		}
	}
	fmt.Fprint(bw, "\n}\n")

	bw.Flush()
	return warn, nil
}

func dumpMaterial(w *bufio.Writer, indent, i int, mat *fourds.Material) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: {", i)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Glossiness: %g, Opacity: %g", mat.Glossiness, mat.Opacity)
	if mat.TwoSided || mat.Mipmaps || mat.Coloring || mat.AdditiveBlend || mat.ColorKey || mat.DiffuseAlpha {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "TwoSided: %t, Mipmaps: %t, Coloring: %t, AdditiveBlend: %t, ColorKey: %t, DiffuseAlpha: %t",
			mat.TwoSided, mat.Mipmaps, mat.Coloring, mat.AdditiveBlend, mat.ColorKey, mat.DiffuseAlpha)
	}
	dumpTexture(w, indent+1, "Diffuse", mat.DiffuseMap)
	dumpTexture(w, indent+1, "Alpha", mat.AlphaMap)
	dumpTexture(w, indent+1, "Environment", mat.EnvMap)
	if mat.EnvMap != nil {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "EnvRatio: %g", mat.EnvRatio)
	}
	if mat.Animation != nil {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Animation: %d frames, period %dms", mat.Animation.FrameCount, mat.Animation.FramePeriod)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpTexture(w *bufio.Writer, indent int, slot string, ref *fourds.TextureRef) {
	if ref == nil {
		return
	}
	dumpNewline(w, indent)
	w.WriteString(slot)
	w.WriteString(": ")
	dumpString(w, ref.Name)
	if ref.Image != nil {
		b := ref.Image.Bounds()
		fmt.Fprintf(w, " (%dx%d)", b.Dx(), b.Dy())
	}
}

func dumpObject(w *bufio.Writer, indent, i int, obj *fourds.Object, index map[*fourds.Object]int) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: ", i)
	if obj.Kind == fourds.KindVisual {
		fmt.Fprintf(w, "%v", obj.VisualKind)
	} else {
		fmt.Fprintf(w, "%v", obj.Kind)
	}
	w.WriteByte(' ')
	dumpString(w, obj.Name)
	w.WriteString(" {")
	if parent := obj.Parent(); parent != nil {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Parent: #%d ", index[parent])
		dumpString(w, parent.Name)
	}
	if obj.Properties != "" {
		dumpNewline(w, indent+1)
		w.WriteString("Properties: ")
		dumpString(w, obj.Properties)
	}
	dumpPayload(w, indent+1, obj.Mesh, index)
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpPayload(w *bufio.Writer, indent int, m fourds.Mesh, index map[*fourds.Object]int) {
	switch m := m.(type) {
	case *fourds.StandardMesh:
		dumpStandard(w, indent, m, index)
	case *fourds.Billboard:
		dumpStandard(w, indent, &m.StandardMesh, index)
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Axis: %d, AllAxes: %t", m.Axis, m.AllAxes)
	case *fourds.MorphMesh:
		dumpStandard(w, indent, &m.StandardMesh, index)
		dumpNewline(w, indent)
		fmt.Fprintf(w, "MorphFrames: %d, MorphLODs: %d", m.FrameCount, len(m.Morph.LODs))
	case *fourds.SingleMesh:
		dumpStandard(w, indent, &m.StandardMesh, index)
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Joints: %d", len(m.Joints))
	case *fourds.SingleMorph:
		dumpStandard(w, indent, &m.StandardMesh, index)
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Joints: %d, MorphFrames: %d", len(m.Joints), m.FrameCount)
	case *fourds.Sector:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Vertices: %d, Faces: %d, Portals: %d", len(m.Vertices), len(m.Faces), len(m.Portals))
	case *fourds.Mirror:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Vertices: %d, Faces: %d, FarPlane: %g", len(m.Vertices), len(m.Faces), m.FarPlane)
	case *fourds.Occluder:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Vertices: %d, Faces: %d", len(m.Vertices), len(m.Faces))
	case *fourds.Dummy:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Min: %v, Max: %v", m.Min, m.Max)
	case *fourds.Target:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Links: %v", m.Links)
	case *fourds.Lens:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Glows: %d", len(m.Glows))
	case *fourds.Joint:
		dumpNewline(w, indent)
		fmt.Fprintf(w, "JointIndex: %d", m.Index)
	}
}

func dumpStandard(w *bufio.Writer, indent int, m *fourds.StandardMesh, index map[*fourds.Object]int) {
	if m.Instance != nil {
		dumpNewline(w, indent)
		fmt.Fprintf(w, "Instance: #%d ", index[m.Instance])
		dumpString(w, m.Instance.Name)
		return
	}
	dumpNewline(w, indent)
	fmt.Fprintf(w, "LODs: %d {", len(m.LODs))
	for i, lod := range m.LODs {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "#%d: Vertices: %d, Submeshes: %d, DistanceSq: %g", i, len(lod.Vertices), len(lod.Submeshes), lod.DistanceSq)
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpString(w *bufio.Writer, s string) {
	for _, r := range s {
		if !unicode.IsGraphic(r) {
			fmt.Fprintf(w, "(len:%d) %q", len(s), s)
			return
		}
	}
	w.WriteString(strconv.Quote(s))
}
