package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

const quadMesh = `# unit quad
v 0 0 0
v 2 0 0
v 2 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 0.5
vt 0.25 1
vn 0 0 1
o ignored directive
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
`

// closedForm is the reference tangent solution in float64.
func closedForm(p [3][3]float64, uv [3][2]float64) (t, b [3]float64) {
	var e1, e2 [3]float64
	for i := 0; i < 3; i++ {
		e1[i] = p[1][i] - p[0][i]
		e2[i] = p[2][i] - p[0][i]
	}
	d1 := [2]float64{uv[1][0] - uv[0][0], uv[1][1] - uv[0][1]}
	d2 := [2]float64{uv[2][0] - uv[0][0], uv[2][1] - uv[0][1]}
	det := d1[0]*d2[1] - d2[0]*d1[1]
	for i := 0; i < 3; i++ {
		t[i] = (d2[1]*e1[i] - d1[1]*e2[i]) / det
		b[i] = (-d2[0]*e1[i] + d1[0]*e2[i]) / det
	}
	return t, b
}

func TestParseQuadFan(t *testing.T) {
	data, err := Parse(strings.NewReader(quadMesh))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if data.Layout != LayoutTangent {
		t.Errorf("Layout = %v, want tangent", data.Layout)
	}
	if got := data.Count(); got != 6 {
		t.Fatalf("Count() = %d, want 6", got)
	}
	if data.Degenerate != 0 {
		t.Errorf("Degenerate = %d, want 0", data.Degenerate)
	}

	pos := [4][3]float64{{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {0, 1, 0}}
	uv := [4][2]float64{{0, 0}, {1, 0}, {1, 0.5}, {0.25, 1}}
	// Fan around corner 0: (0,1,2), (0,2,3).
	order := []int{0, 1, 2, 0, 2, 3}

	const eps = 1e-5
	for tri := 0; tri < 2; tri++ {
		idx := order[tri*3 : tri*3+3]
		wantT, wantB := closedForm(
			[3][3]float64{pos[idx[0]], pos[idx[1]], pos[idx[2]]},
			[3][2]float64{uv[idx[0]], uv[idx[1]], uv[idx[2]]},
		)

		for c := 0; c < 3; c++ {
			v := data.Vertices[(tri*3+c)*14 : (tri*3+c+1)*14]
			src := idx[c]
			for i := 0; i < 3; i++ {
				if math.Abs(float64(v[i])-pos[src][i]) > eps {
					t.Errorf("tri %d corner %d pos = %v, want %v", tri, c, v[0:3], pos[src])
					break
				}
			}
			if math.Abs(float64(v[3])-uv[src][0]) > eps || math.Abs(float64(v[4])-uv[src][1]) > eps {
				t.Errorf("tri %d corner %d uv = %v, want %v", tri, c, v[3:5], uv[src])
			}
			if v[5] != 0 || v[6] != 0 || v[7] != 1 {
				t.Errorf("tri %d corner %d normal = %v", tri, c, v[5:8])
			}
			for i := 0; i < 3; i++ {
				if math.Abs(float64(v[8+i])-wantT[i]) > eps {
					t.Errorf("tri %d corner %d tangent = %v, want %v", tri, c, v[8:11], wantT)
					break
				}
			}
			for i := 0; i < 3; i++ {
				if math.Abs(float64(v[11+i])-wantB[i]) > eps {
					t.Errorf("tri %d corner %d bitangent = %v, want %v", tri, c, v[11:14], wantB)
					break
				}
			}
		}
	}
}

func TestParsePentagonFanCount(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 2 1 0
v 1 2 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0.5 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1 5/5/1
`
	data, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := data.Count(); got != 9 {
		t.Fatalf("Count() = %d, want 9", got)
	}
	// Every triangle starts at corner 0.
	for tri := 0; tri < 3; tri++ {
		v := data.Vertices[tri*3*14:]
		if v[0] != 0 || v[1] != 0 {
			t.Errorf("triangle %d starts at %v, want origin", tri, v[0:3])
		}
	}
}

func TestParseErrors(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nvn 0 0 1\n"

	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"missing texcoord", header + "f 1//1 2//1 3//1\n", 8, ErrMalformedCorner},
		{"missing normal", header + "f 1/1 2/2 3/3\n", 8, ErrMalformedCorner},
		{"position only", header + "f 1 2 3\n", 8, ErrMalformedCorner},
		{"two corners", header + "f 1/1/1 2/2/1\n", 8, ErrTooFewCorners},
		{"out of range", header + "f 1/1/1 2/2/1 9/3/1\n", 8, ErrIndexOutOfRange},
		{"zero index", header + "f 0/1/1 2/2/1 3/3/1\n", 8, ErrIndexOutOfRange},
		{"negative index", header + "f -1/1/1 2/2/1 3/3/1\n", 8, ErrIndexOutOfRange},
		{"forward reference", "v 0 0 0\nv 1 0 0\nvt 0 0\nvt 1 0\nvt 0 1\nvn 0 0 1\nf 1/1/1 2/2/1 3/3/1\nv 0 1 0\n", 7, ErrIndexOutOfRange},
		{"bad float", "v 0 x 0\n", 1, ErrBadNumber},
		{"short vertex", "v 0 0\n", 1, ErrMissingComponent},
		{"bad index", header + "f a/1/1 2/2/1 3/3/1\n", 8, ErrBadNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestParseDegenerateUV(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5 0.5\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"
	data, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if data.Degenerate != 1 {
		t.Errorf("Degenerate = %d, want 1", data.Degenerate)
	}
	for i, f := range data.Vertices {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			t.Fatalf("vertex float %d is %v", i, f)
		}
	}
	// Tangent is unit length and perpendicular to the face normal (0,0,1).
	tan := data.Vertices[8:11]
	if math.Abs(float64(tan[2])) > 1e-6 {
		t.Errorf("tangent %v not perpendicular to normal", tan)
	}
	l := math.Sqrt(float64(tan[0]*tan[0] + tan[1]*tan[1] + tan[2]*tan[2]))
	if math.Abs(l-1) > 1e-5 {
		t.Errorf("tangent length = %v, want 1", l)
	}
}

func TestParseIgnoresUnknownAndBlank(t *testing.T) {
	src := "mtllib x.mtl\n\n# comment\nusemtl foo\ng group\n"
	data, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if data.Count() != 0 {
		t.Errorf("Count() = %d, want 0", data.Count())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	if err := os.WriteFile(path, []byte(quadMesh), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data.Count() != 6 {
		t.Errorf("Count() = %d, want 6", data.Count())
	}

	if _, err := Load(filepath.Join(dir, "missing.obj")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestParseByteOrderMark(t *testing.T) {
	want, err := Parse(strings.NewReader(quadMesh))
	if err != nil {
		t.Fatal(err)
	}

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(quadMesh)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"utf-8 bom", "\uFEFF" + quadMesh},
		{"utf-16le bom", utf16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(got.Vertices) != len(want.Vertices) {
				t.Fatalf("got %d floats, want %d", len(got.Vertices), len(want.Vertices))
			}
			for i := range want.Vertices {
				if got.Vertices[i] != want.Vertices[i] {
					t.Fatalf("float %d = %v, want %v", i, got.Vertices[i], want.Vertices[i])
				}
			}
		})
	}
}

func TestParseLongFaceLine(t *testing.T) {
	const corners = 20000
	var b strings.Builder
	b.WriteString("v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nvn 0 0 1\nf")
	for i := 0; i < corners; i++ {
		fmt.Fprintf(&b, " %d/%d/1", i%3+1, i%3+1)
	}
	b.WriteString("\n")
	if b.Len() <= 64*1024 {
		t.Fatalf("face line is only %d bytes", b.Len())
	}

	data, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got, want := data.Count(), int32(3*(corners-2)); got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestParseLineTooLong(t *testing.T) {
	old := maxLineSize
	maxLineSize = 128
	defer func() { maxLineSize = old }()

	input := "v 0 0 0\nv " + strings.Repeat("1", 200) + " 0 0\n"
	_, err := Parse(strings.NewReader(input))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("error = %v, want bufio.ErrTooLong", err)
	}
}
