package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/selector"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a DAG and its selected path to indented JSON bytes.
func Marshal(g *dag.DAG, best selector.Path) ([]byte, error) {
	return MarshalGraph(FromDAG(g, best))
}

// MarshalGraph encodes an already converted Graph.
func MarshalGraph(gj Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(gj, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a DAG and its selected path to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *dag.DAG, best selector.Path, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return encode(FromDAG(g, best), f)
}

// Write writes a DAG and its selected path as JSON to an io.Writer.
func Write(g *dag.DAG, best selector.Path, w io.Writer) error {
	return encode(FromDAG(g, best), w)
}

// ReadFile reads a JSON file and returns the decoded DAG.
// Returns validation errors for malformed graphs.
func ReadFile(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON graph from an io.Reader into a DAG.
func Read(r io.Reader) (*dag.DAG, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(data)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encode(gj Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gj); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
