package document

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/drawkit/drawkit/internal/geom"
)

// GoSource renders the tree as a Go variable declaration that rebuilds it with
// NewShape and NewPolygon calls. The output is meant for pasting into source
// as a constant scene, not for parsing back. Rotations are emitted as
// assignments after construction when non-zero.
func GoSource(varName string, s *Shape) (string, error) {
	var b strings.Builder
	var rotations []string
	fmt.Fprintf(&b, "var %s = ", varName)
	writeShape(&b, s, varName, &rotations)
	b.WriteString("\n")
	if len(rotations) > 0 {
		b.WriteString("\nfunc init() {\n")
		for _, r := range rotations {
			b.WriteString(r)
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return "", fmt.Errorf("format generated source: %w", err)
	}
	return string(out), nil
}

func writeShape(b *strings.Builder, s *Shape, path string, rotations *[]string) {
	fmt.Fprintf(b, "document.NewShape(%s, %s,\n", strconv.Quote(s.Name), goPoint(s.Origin))
	b.WriteString("[]*document.Polygon{\n")
	for _, p := range s.Polygons {
		b.WriteString("document.NewPolygon([]geom.Cartesian{")
		for i, pt := range p.Points {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(goPoint(pt))
		}
		fmt.Fprintf(b, "}, %s, %d, %t),\n", strconv.Quote(p.Color), p.Layer, p.LineOnly)
	}
	b.WriteString("},\n")
	b.WriteString("[]*document.Shape{\n")
	for i, c := range s.Shapes {
		writeShape(b, c, fmt.Sprintf("%s.Shapes[%d]", path, i), rotations)
		b.WriteString(",\n")
	}
	b.WriteString("},\n)")
	if s.Rotation != 0 {
		*rotations = append(*rotations, fmt.Sprintf("%s.Rotation = %s", path, goFloat(s.Rotation)))
	}
}

func goPoint(c geom.Cartesian) string {
	return fmt.Sprintf("geom.XY(%s, %s)", goFloat(c.X), goFloat(c.Y))
}

func goFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
