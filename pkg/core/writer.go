package core

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// WritePackage serializes the manifest and entries into a zip archive on w.
// The manifest bytes are written verbatim as the top-level package.json, and
// every entry lands at rootDir/<RelPath> with its directory structure intact.
//
// Colliding relative paths resolve last-write-wins: the later entry's payload
// replaces the earlier one's and a single archive entry is emitted. With
// Options.FailOnCollision a collision is rejected instead.
func WritePackage(w io.Writer, rootDir string, manifest []byte, entries []LogicalEntry, opts Options) error {
	unique, err := dedupeEntries(entries, opts)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	if err := writeZipEntry(zw, ManifestName, manifest); err != nil {
		return err
	}
	for _, entry := range unique {
		if err := writeZipEntry(zw, rootDir+"/"+entry.RelPath, entry.Payload); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return &ArchiveWriteError{Err: fmt.Errorf("finalize archive: %w", err)}
	}
	return nil
}

// dedupeEntries applies the collision policy while keeping first-encounter
// order.
func dedupeEntries(entries []LogicalEntry, opts Options) ([]LogicalEntry, error) {
	byPath := make(map[string]int, len(entries))
	out := make([]LogicalEntry, 0, len(entries))
	for _, entry := range entries {
		i, seen := byPath[entry.RelPath]
		if !seen {
			byPath[entry.RelPath] = len(out)
			out = append(out, entry)
			continue
		}
		if opts.FailOnCollision {
			return nil, &WriteConflictError{Path: entry.RelPath}
		}
		log.Warn().Str("path", entry.RelPath).Str("guid", entry.ID).Msg("duplicate output path, keeping later entry")
		out[i] = entry
	}
	return out, nil
}

// writeZipEntry adds one deflated file to the archive.
func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return &ArchiveWriteError{Err: fmt.Errorf("create %s: %w", name, err)}
	}
	if _, err := f.Write(data); err != nil {
		return &ArchiveWriteError{Err: fmt.Errorf("write %s: %w", name, err)}
	}
	return nil
}
