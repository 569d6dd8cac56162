package waypoint

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/botnav/common"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written to every saved file.
const FormatVersion = 2

// RadiusEpsilon is the smallest radius difference from the store default
// worth persisting.
const RadiusEpsilon = 1e-3

// legacyDroppedCode is the file encoding of TypeDropped.
const legacyDroppedCode = 0

var ErrMalformed = errors.New("waypoint: malformed file")

// Header is the metadata of the last file loaded into or saved from a store.
type Header struct {
	ID         string
	Revision   int
	Version    int
	Compressed bool
	Level      string
	Checksum   string
	Saved      time.Time
	Author     string
}

func (s *Store) Header() Header {
	return s.header
}

type SaveOptions struct {
	Level    string
	Checksum string
	Author   string
	Compress bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type LoadOptions struct {
	// Checksum is the current level geometry checksum. A mismatch with the
	// file only logs a warning.
	Checksum string
}

type fileHeader struct {
	ID         string    `yaml:"id,omitempty"`
	Revision   int       `yaml:"revision"`
	Version    int       `yaml:"version"`
	Compressed *bool     `yaml:"compressed,omitempty"`
	Level      string    `yaml:"level,omitempty"`
	Checksum   string    `yaml:"checksum,omitempty"`
	Saved      time.Time `yaml:"saved,omitempty"`
	Author     string    `yaml:"author,omitempty"`
}

type fileNode struct {
	Pos     []float64 `yaml:"pos,flow"`
	Type    *int      `yaml:"type"`
	Subtype int       `yaml:"subtype,omitempty"`
	Links   []int     `yaml:"links,flow,omitempty"`
	Radius  *float64  `yaml:"radius,omitempty"`
}

type document struct {
	Header *fileHeader `yaml:"header"`
	Nodes  *[]fileNode `yaml:"nodes"`
}

func typeToCode(t Type) int {
	if t == TypeDropped {
		return legacyDroppedCode
	}
	return int(t)
}

func typeFromCode(code int) (Type, bool) {
	if code == legacyDroppedCode {
		return TypeDropped, true
	}
	t := Type(code)
	return t, t.Known()
}

// Save writes the valid nodes of s to w, compacting indices, and bumps the
// store's revision on success.
func Save(w io.Writer, s *Store, opts SaveOptions) error {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	id := s.header.ID
	if id == "" {
		id = uuid.NewString()
	}
	compressed := opts.Compress
	hdr := fileHeader{
		ID:         id,
		Revision:   s.header.Revision + 1,
		Version:    FormatVersion,
		Compressed: &compressed,
		Level:      opts.Level,
		Checksum:   opts.Checksum,
		Saved:      now().UTC().Truncate(time.Second),
		Author:     opts.Author,
	}

	table, size := s.compactTable()
	nodes := make([]fileNode, 0, size-1)
	for i := 1; i < len(s.nodes); i++ {
		if table[i] == 0 {
			continue
		}
		n := &s.nodes[i]
		code := typeToCode(n.Type)
		fn := fileNode{
			Type:    &code,
			Subtype: n.Subtype,
		}
		if compressed {
			q := s.oracle.Quantize(n.Pos)
			fn.Pos = []float64{float64(q[0]), float64(q[1]), float64(q[2])}
		} else {
			fn.Pos = []float64{n.Pos.X, n.Pos.Y, n.Pos.Z}
		}
		for slot := 0; slot < n.count; slot++ {
			to := n.links[slot]
			if to > 0 && to < len(table) && table[to] != 0 {
				fn.Links = append(fn.Links, table[to])
			}
		}
		if math.Abs(n.Radius-s.defaultRadius) > RadiusEpsilon {
			r := n.Radius
			fn.Radius = &r
		}
		nodes = append(nodes, fn)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Header: &hdr, Nodes: &nodes}); err != nil {
		return fmt.Errorf("waypoint: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("waypoint: encode: %w", err)
	}

	s.header = Header{
		ID:         hdr.ID,
		Revision:   hdr.Revision,
		Version:    hdr.Version,
		Compressed: compressed,
		Level:      hdr.Level,
		Checksum:   hdr.Checksum,
		Saved:      hdr.Saved,
		Author:     hdr.Author,
	}
	return nil
}

// Load replaces the contents of s with the graph read from r. The store is
// left untouched when the file is malformed.
func Load(r io.Reader, s *Store, opts LoadOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("waypoint: read: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Header == nil {
		return fmt.Errorf("%w: missing header", ErrMalformed)
	}
	if doc.Nodes == nil {
		return fmt.Errorf("%w: missing nodes", ErrMalformed)
	}

	hdr := doc.Header
	if hdr.Version > FormatVersion {
		slog.Warn("waypoint: file is newer than this build", "version", hdr.Version, "supported", FormatVersion)
	}
	if opts.Checksum != "" && hdr.Checksum != "" && opts.Checksum != hdr.Checksum {
		slog.Warn("waypoint: level checksum mismatch", "level", hdr.Level, "file", hdr.Checksum, "current", opts.Checksum)
	}

	entries := *doc.Nodes
	nodes := make([]Node, 1, len(entries)+1)
	for i, fn := range entries {
		pos, err := decodePos(fn.Pos, hdr.Compressed, s.oracle)
		if err != nil {
			return fmt.Errorf("%w: node %d: %v", ErrMalformed, i+1, err)
		}
		if fn.Type == nil {
			return fmt.Errorf("%w: node %d: missing type", ErrMalformed, i+1)
		}
		typ, ok := typeFromCode(*fn.Type)
		if !ok {
			return fmt.Errorf("%w: node %d: unknown type %d", ErrMalformed, i+1, *fn.Type)
		}
		radius := s.defaultRadius
		if fn.Radius != nil {
			radius = s.sanitizeRadius(*fn.Radius)
		}
		nodes = append(nodes, Node{Pos: pos, Type: typ, Subtype: fn.Subtype, Radius: radius, valid: true})
	}
	for i, fn := range entries {
		n := &nodes[i+1]
		for _, to := range fn.Links {
			if to <= 0 || to >= len(nodes) || to == i+1 || n.HasLink(to) {
				continue
			}
			if !n.appendLink(to) {
				break
			}
		}
	}

	compressed := false
	if hdr.Compressed != nil {
		compressed = *hdr.Compressed
	}
	version := hdr.Version
	if version == 0 {
		version = 1
	}
	s.nodes = nodes
	s.dirty = true
	s.header = Header{
		ID:         hdr.ID,
		Revision:   hdr.Revision,
		Version:    version,
		Compressed: compressed,
		Level:      hdr.Level,
		Checksum:   hdr.Checksum,
		Saved:      hdr.Saved,
		Author:     hdr.Author,
	}
	return nil
}

// decodePos reads a position entry. Without an explicit compressed flag an
// entry is taken as quantized when all three values are integral and fit in
// 16 bits, which misreads small whole-number float coordinates.
func decodePos(raw []float64, compressed *bool, oracle Oracle) (common.Vec3, error) {
	if len(raw) != 3 {
		return common.Vec3{}, fmt.Errorf("position needs 3 values, got %d", len(raw))
	}
	quantized := looksQuantized(raw)
	if compressed != nil {
		quantized = *compressed
	}
	if quantized {
		var q [3]int16
		for i, v := range raw {
			if !isInt16(v) {
				return common.Vec3{}, fmt.Errorf("quantized component %v out of range", v)
			}
			q[i] = int16(v)
		}
		return oracle.Dequantize(q), nil
	}
	p := common.V3(raw[0], raw[1], raw[2])
	if !p.Finite() {
		return common.Vec3{}, fmt.Errorf("non-finite position %v", raw)
	}
	return p, nil
}

func looksQuantized(raw []float64) bool {
	for _, v := range raw {
		if !isInt16(v) {
			return false
		}
	}
	return true
}

func isInt16(v float64) bool {
	return v == math.Trunc(v) && v >= math.MinInt16 && v <= math.MaxInt16
}

// SaveFile saves s to path through a temporary file in the same directory.
func SaveFile(path string, s *Store, opts SaveOptions) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("waypoint: save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".waypoints-*")
	if err != nil {
		return fmt.Errorf("waypoint: save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, s, opts); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("waypoint: save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("waypoint: save %s: %w", path, err)
	}
	return nil
}

// LoadFile loads path into s.
func LoadFile(path string, s *Store, opts LoadOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("waypoint: load %s: %w", path, err)
	}
	defer f.Close()
	if err := Load(f, s, opts); err != nil {
		return fmt.Errorf("waypoint: load %s: %w", path, err)
	}
	return nil
}
