package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

//go:embed default.tengo
var defaultScript []byte

var ErrNoResult = errors.New("policy: script does not define result")

// Candidate is a goal node offered to a policy.
type Candidate struct {
	Node     int
	Type     string
	Subtype  int
	Distance float64
}

// Policy decides whether a bot may pick a candidate as its goal.
type Policy interface {
	Accept(c Candidate) bool
}

// AcceptAll accepts every candidate.
type AcceptAll struct{}

func (AcceptAll) Accept(Candidate) bool { return true }

// Script is a compiled tengo goal policy. The script sees node, node_type,
// subtype and distance and must assign a boolean to result.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

// Compile builds a policy from tengo source.
func Compile(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for k, v := range map[string]any{
		"node":      0,
		"node_type": "",
		"subtype":   0,
		"distance":  0.0,
	} {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("policy: %s: %w", name, err)
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("policy: compile %s: %w", name, err)
	}
	if !compiled.IsDefined("result") {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, name)
	}
	return &Script{name: name, compiled: compiled}, nil
}

// Default returns the built-in policy.
func Default() *Script {
	s, err := Compile("default.tengo", defaultScript)
	if err != nil {
		panic(err)
	}
	return s
}

// Load compiles the script at path, or the built-in policy when path is empty.
func Load(path string) (*Script, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: load %s: %w", path, err)
	}
	return Compile(path, src)
}

// Evaluate runs the script for c.
func (s *Script) Evaluate(c Candidate) (bool, error) {
	vars := []struct {
		name  string
		value any
	}{
		{"node", c.Node},
		{"node_type", c.Type},
		{"subtype", c.Subtype},
		{"distance", c.Distance},
	}
	for _, v := range vars {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return false, fmt.Errorf("policy: %s: set %s: %w", s.name, v.name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return false, fmt.Errorf("policy: %s: run: %w", s.name, err)
	}
	return s.compiled.Get("result").Bool(), nil
}

// Accept is Evaluate with failures treated as rejection.
func (s *Script) Accept(c Candidate) bool {
	ok, err := s.Evaluate(c)
	if err != nil {
		slog.Debug("policy: candidate rejected on error", "node", c.Node, "err", err)
		return false
	}
	return ok
}
