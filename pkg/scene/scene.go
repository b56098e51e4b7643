package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treescape/pkg/tree"
)

// ErrNonFinite is returned when a document carries a NaN or infinite coordinate.
var ErrNonFinite = errors.New("coordinate is not finite")

// =============================================================================
// Tree Documents
// =============================================================================

// MarshalTree converts a snapshot to indented JSON.
func MarshalTree(s tree.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTree writes a snapshot as JSON.
func WriteTree(s tree.Snapshot, w io.Writer) error {
	return encode(w, FromSnapshot(s))
}

// WriteTreeFile writes a snapshot to a JSON file.
func WriteTreeFile(s tree.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(s, f)
}

// ReadTree decodes and validates a tree document.
func ReadTree(r io.Reader) (tree.Snapshot, error) {
	var doc Tree
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return tree.Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return ToSnapshot(doc)
}

// ReadTreeFile reads a tree document from a file.
func ReadTreeFile(path string) (tree.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// =============================================================================
// Result Documents
// =============================================================================

// WritePlacements writes a placement document.
func WritePlacements(p Placements, w io.Writer) error { return encode(w, p) }

// WriteWalkthrough writes a walkthrough document.
func WriteWalkthrough(wt Walkthrough, w io.Writer) error { return encode(w, wt) }

// MarshalPlacements encodes a placement document compactly.
func MarshalPlacements(p Placements) ([]byte, error) { return json.Marshal(p) }

// UnmarshalPlacements decodes a placement document.
func UnmarshalPlacements(data []byte) (Placements, error) {
	var p Placements
	if err := json.Unmarshal(data, &p); err != nil {
		return Placements{}, fmt.Errorf("decode placements: %w", err)
	}
	return p, nil
}

// MarshalWalkthrough encodes a walkthrough document compactly.
func MarshalWalkthrough(wt Walkthrough) ([]byte, error) { return json.Marshal(wt) }

// UnmarshalWalkthrough decodes a walkthrough document.
func UnmarshalWalkthrough(data []byte) (Walkthrough, error) {
	var wt Walkthrough
	if err := json.Unmarshal(data, &wt); err != nil {
		return Walkthrough{}, fmt.Errorf("decode walkthrough: %w", err)
	}
	return wt, nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
