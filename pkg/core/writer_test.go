package core

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
)

// readZip decodes an output archive into name → payload plus entry order.
func readZip(t *testing.T, data []byte) (map[string][]byte, []string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Failed to open output archive: %v", err)
	}
	files := make(map[string][]byte, len(zr.File))
	var order []string
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f.Name, err)
		}
		files[f.Name] = content
		order = append(order, f.Name)
	}
	return files, order
}

// TestManifestPassthrough checks the manifest lands first, byte-for-byte
func TestManifestPassthrough(t *testing.T) {
	manifest := []byte("{\n  \"name\": \"com.example.pkg\",\n  \"version\": \"1.0.0\"\n}\n")

	var out bytes.Buffer
	err := WritePackage(&out, "com.example.pkg@1.0.0", manifest, nil, Options{})
	if err != nil {
		t.Fatalf("WritePackage failed: %v", err)
	}

	files, order := readZip(t, out.Bytes())
	if len(order) == 0 || order[0] != ManifestName {
		t.Fatalf("Expected %s as the first archive entry, got %v", ManifestName, order)
	}
	if !bytes.Equal(files[ManifestName], manifest) {
		t.Fatalf("Manifest bytes were not passed through verbatim")
	}
}

// TestNestedDirectoryStructure checks multi-segment paths stay nested
func TestNestedDirectoryStructure(t *testing.T) {
	entries := []LogicalEntry{
		{ID: "g1", RelPath: "Models/Chair/mesh.fbx", Payload: []byte("fbx")},
	}

	var out bytes.Buffer
	if err := WritePackage(&out, "pkg@0.1.0", []byte("{}"), entries, Options{}); err != nil {
		t.Fatalf("WritePackage failed: %v", err)
	}

	files, _ := readZip(t, out.Bytes())
	content, ok := files["pkg@0.1.0/Models/Chair/mesh.fbx"]
	if !ok {
		t.Fatalf("Expected nested entry, archive holds %v", keys(files))
	}
	if string(content) != "fbx" {
		t.Fatalf("Payload mismatch: %q", content)
	}
}

// TestCollisionLastWriteWins checks the default duplicate-path policy
func TestCollisionLastWriteWins(t *testing.T) {
	entries := []LogicalEntry{
		{ID: "g1", RelPath: "a/b.txt", Payload: []byte("B1")},
		{ID: "g2", RelPath: "other.txt", Payload: []byte("x")},
		{ID: "g3", RelPath: "a/b.txt", Payload: []byte("B2")},
	}

	var out bytes.Buffer
	if err := WritePackage(&out, "pkg@1.0.0", []byte("{}"), entries, Options{}); err != nil {
		t.Fatalf("WritePackage failed: %v", err)
	}

	files, order := readZip(t, out.Bytes())
	count := 0
	for _, name := range order {
		if name == "pkg@1.0.0/a/b.txt" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Expected exactly one entry for the colliding path, got %d", count)
	}
	if string(files["pkg@1.0.0/a/b.txt"]) != "B2" {
		t.Fatalf("Expected the later payload to win, got %q", files["pkg@1.0.0/a/b.txt"])
	}
}

// TestCollisionRejected checks the opt-in hard-failure policy
func TestCollisionRejected(t *testing.T) {
	entries := []LogicalEntry{
		{ID: "g1", RelPath: "a/b.txt", Payload: []byte("B1")},
		{ID: "g2", RelPath: "a/b.txt", Payload: []byte("B2")},
	}

	var out bytes.Buffer
	err := WritePackage(&out, "pkg@1.0.0", []byte("{}"), entries, Options{FailOnCollision: true})
	var conflictErr *WriteConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("Expected WriteConflictError, got %v", err)
	}
	if conflictErr.Path != "a/b.txt" {
		t.Fatalf("Expected the colliding path to be named, got %q", conflictErr.Path)
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
