// The fourds-stat command displays stats for a 4DS scene file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ls3dtools/fourds"
	"github.com/ls3dtools/fourds/bin"
	"github.com/ls3dtools/fourds/texture"
)

const usage = `usage: fourds-stat [FLAGS] [INPUT] [OUTPUT]

Reads a 4DS file from INPUT, and writes to OUTPUT statistics for the file.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

FLAGS
`

type Stats struct {
	// File creation stamp, a Windows FILETIME value.
	Timestamp uint64

	// Number of materials overall.
	MaterialCount int

	// Number of objects overall.
	ObjectCount int

	// Number of objects per kind.
	KindCount map[string]int

	// Number of visual objects per payload type.
	VisualCount map[string]int `json:",omitempty"`

	// Texture names referenced by the material table.
	Textures []string `json:",omitempty"`

	// Number of reconstructed skeletons.
	SkeletonCount int `json:",omitempty"`

	// Vertex and triangle totals over owned geometry.
	VertexCount int
	FaceCount   int
}

func (s *Stats) Fill(scene *fourds.Scene) {
	s.Timestamp = scene.Timestamp
	s.MaterialCount = len(scene.Materials)
	s.ObjectCount = len(scene.Objects)
	s.SkeletonCount = len(scene.Skeletons)

	s.KindCount = map[string]int{}
	s.VisualCount = map[string]int{}
	for _, obj := range scene.Objects {
		s.KindCount[obj.Kind.String()]++
		if obj.Kind == fourds.KindVisual {
			s.VisualCount[obj.VisualKind.String()]++
		}
		s.countGeometry(obj.Mesh)
	}

	seen := map[string]bool{}
	for _, mat := range scene.Materials {
		for _, ref := range []*fourds.TextureRef{mat.DiffuseMap, mat.AlphaMap, mat.EnvMap} {
			if ref != nil && ref.Name != "" && !seen[ref.Name] {
				seen[ref.Name] = true
				s.Textures = append(s.Textures, ref.Name)
			}
		}
	}
}

func (s *Stats) countGeometry(m fourds.Mesh) {
	switch m := m.(type) {
	case *fourds.StandardMesh:
		s.countLODs(m)
	case *fourds.Billboard:
		s.countLODs(&m.StandardMesh)
	case *fourds.MorphMesh:
		s.countLODs(&m.StandardMesh)
	case *fourds.SingleMesh:
		s.countLODs(&m.StandardMesh)
	case *fourds.SingleMorph:
		s.countLODs(&m.StandardMesh)
	case *fourds.Sector:
		s.VertexCount += len(m.Vertices)
		s.FaceCount += len(m.Faces)
	case *fourds.Mirror:
		s.VertexCount += len(m.Vertices)
		s.FaceCount += len(m.Faces)
	case *fourds.Occluder:
		s.VertexCount += len(m.Vertices)
		s.FaceCount += len(m.Faces)
	}
}

func (s *Stats) countLODs(m *fourds.StandardMesh) {
	for _, lod := range m.LODs {
		s.VertexCount += len(lod.Vertices)
		for i := range lod.Submeshes {
			s.FaceCount += len(lod.Submeshes[i].Faces)
		}
	}
}

// exportTextures writes every resolved texture image as a lossless WebP
// next to dir.
func exportTextures(scene *fourds.Scene, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, mat := range scene.Materials {
		for _, ref := range []*fourds.TextureRef{mat.DiffuseMap, mat.AlphaMap, mat.EnvMap} {
			if ref == nil || ref.Image == nil {
				continue
			}
			name := strings.TrimSuffix(ref.Name, filepath.Ext(ref.Name)) + ".webp"
			f, err := os.Create(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			err = texture.WriteWebP(f, ref.Image)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	var dump bool
	var maps string
	var dumpTex string
	flag.BoolVar(&dump, "dump", false, "Write a readable dump of the file instead of statistics.")
	flag.StringVar(&maps, "maps", "", "Colon-separated texture search directories.")
	flag.StringVar(&dumpTex, "dump-tex", "", "Export resolved textures as WebP files into the given directory.")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			return
		}
		defer out.Close()
		output = out
	}

	decoder := bin.Decoder{}
	if maps != "" {
		decoder.Resolver = &texture.Resolver{Dirs: strings.Split(maps, ":")}
	}

	if dump {
		warn, err := decoder.Dump(output, input)
		if warn != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
		}
		return
	}

	scene, warn, err := decoder.Decode(input)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
		return
	}

	if dumpTex != "" {
		if err := exportTextures(scene, dumpTex); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("export textures: %w", err))
		}
	}

	var stats Stats
	stats.Fill(scene)

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
	}
}
