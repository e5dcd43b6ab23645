package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrMalformedCorner  = errors.New("corner must be position/texcoord/normal")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrTooFewCorners    = errors.New("face needs at least 3 corners")
	ErrBadNumber        = errors.New("malformed number")
	ErrMissingComponent = errors.New("missing component")
)

// ParseError reports the line a load failed on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads a mesh file from disk.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	return data, nil
}

// maxLineSize bounds a single line; long fan faces can exceed the
// scanner's 64 KiB default.
var maxLineSize = 16 << 20

type parser struct {
	positions []mgl32.Vec3
	texcoords []mgl32.Vec2
	normals   []mgl32.Vec3
	data      Data
}

// Parse reads the text mesh format:
//
//	v x y z
//	vt u v
//	vn x y z
//	f p/t/n p/t/n p/t/n ...
//
// Indices are 1-based into the lists seen so far. Faces are fan-triangulated
// around their first corner. Other directives are ignored. Input is UTF-8;
// a byte order mark selects UTF-16 and is stripped.
func Parse(r io.Reader) (*Data, error) {
	p := &parser{data: Data{Layout: LayoutTangent}}

	scanner := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineSize)), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v []float32
			if v, err = parseFloats(fields[1:], 3); err == nil {
				p.positions = append(p.positions, mgl32.Vec3{v[0], v[1], v[2]})
			}
		case "vt":
			var v []float32
			if v, err = parseFloats(fields[1:], 2); err == nil {
				p.texcoords = append(p.texcoords, mgl32.Vec2{v[0], v[1]})
			}
		case "vn":
			var v []float32
			if v, err = parseFloats(fields[1:], 3); err == nil {
				p.normals = append(p.normals, mgl32.Vec3{v[0], v[1], v[2]})
			}
		case "f":
			err = p.face(fields[1:])
		}
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: line + 1, Err: fmt.Errorf("read mesh: %w", err)}
	}

	return &p.data, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMissingComponent, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func (p *parser) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewCorners, len(fields))
	}

	corners := make([]Corner, len(fields))
	for i, f := range fields {
		c, err := p.corner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 0; i+2 < len(corners); i++ {
		p.triangle(corners[0], corners[i+1], corners[i+2])
	}
	return nil
}

func (p *parser) corner(ref string) (Corner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Corner{}, fmt.Errorf("%w: %q", ErrMalformedCorner, ref)
	}

	pi, err := index(parts[0], len(p.positions))
	if err != nil {
		return Corner{}, fmt.Errorf("position %w", err)
	}
	ti, err := index(parts[1], len(p.texcoords))
	if err != nil {
		return Corner{}, fmt.Errorf("texcoord %w", err)
	}
	ni, err := index(parts[2], len(p.normals))
	if err != nil {
		return Corner{}, fmt.Errorf("normal %w", err)
	}

	return Corner{Pos: p.positions[pi], UV: p.texcoords[ti], Normal: p.normals[ni]}, nil
}

// index converts a 1-based reference into the n items seen so far.
func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, n)
	}
	return i - 1, nil
}

func (p *parser) triangle(a, b, c Corner) {
	t, bt, ok := TangentBasis(a, b, c)
	if !ok {
		p.data.Degenerate++
	}
	for _, cr := range [3]Corner{a, b, c} {
		p.data.Vertices = append(p.data.Vertices,
			cr.Pos[0], cr.Pos[1], cr.Pos[2],
			cr.UV[0], cr.UV[1],
			cr.Normal[0], cr.Normal[1], cr.Normal[2],
			t[0], t[1], t[2],
			bt[0], bt[1], bt[2],
		)
	}
}
