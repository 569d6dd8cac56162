package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := Default()
	cases := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"far item", Candidate{Node: 3, Type: "item", Distance: 500}, true},
		{"near item", Candidate{Node: 3, Type: "item", Distance: 10}, false},
		{"jump pad", Candidate{Node: 4, Type: "jumppad", Distance: 500}, false},
		{"landing", Candidate{Node: 5, Type: "jumppad_landing", Distance: 500}, false},
		{"dropped", Candidate{Node: 6, Type: "dropped", Subtype: 1, Distance: 200}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Accept(tc.c))
		})
	}
}

func TestCompileUsesStdlib(t *testing.T) {
	src := []byte(`text := import("text")
result := !text.has_prefix(node_type, "jump") && subtype == 0`)
	p, err := Compile("prefix.tengo", src)
	require.NoError(t, err)

	assert.True(t, p.Accept(Candidate{Type: "item"}))
	assert.False(t, p.Accept(Candidate{Type: "jumppad_landing"}))
	assert.False(t, p.Accept(Candidate{Type: "dropped", Subtype: 2}))
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("syntax.tengo", []byte("result := ("))
	require.Error(t, err)

	_, err = Compile("noresult.tengo", []byte("x := 1"))
	require.ErrorIs(t, err, ErrNoResult)
}

func TestRuntimeErrorRejects(t *testing.T) {
	p, err := Compile("bad.tengo", []byte(`result := node > 1 ? true : node + "x"`))
	require.NoError(t, err)

	_, err = p.Evaluate(Candidate{Node: 0})
	require.Error(t, err)
	assert.False(t, p.Accept(Candidate{Node: 0}))
	assert.True(t, p.Accept(Candidate{Node: 2}))
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, p)

	path := filepath.Join(t.TempDir(), "goal.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`result := node_type == "objective"`), 0o644))
	p, err = Load(path)
	require.NoError(t, err)
	assert.True(t, p.Accept(Candidate{Type: "objective"}))
	assert.False(t, p.Accept(Candidate{Type: "item"}))

	_, err = Load(filepath.Join(t.TempDir(), "missing.tengo"))
	require.Error(t, err)
}

func TestAcceptAll(t *testing.T) {
	var p Policy = AcceptAll{}
	assert.True(t, p.Accept(Candidate{}))
}
