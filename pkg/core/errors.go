package core

import "fmt"

// DecompressionError reports a source archive whose outer compression layer
// cannot be read or whose tar structure is not well-formed. Always fatal.
type DecompressionError struct {
	Stage string // "decompress" or "parse"
	Err   error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%s source archive: %v", e.Stage, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// ManifestError reports a manifest document that is unreadable, empty, or
// missing a required key. Surfaced before any archive processing begins.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// WriteConflictError reports two resolved entries colliding on the same output
// path when the writer was asked to reject collisions.
type WriteConflictError struct {
	Path string
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("output path collision: %s", e.Path)
}

// ArchiveWriteError reports an I/O failure while writing or finalizing the
// output archive. Always fatal.
type ArchiveWriteError struct {
	Err error
}

func (e *ArchiveWriteError) Error() string {
	return fmt.Sprintf("write output archive: %v", e.Err)
}

func (e *ArchiveWriteError) Unwrap() error { return e.Err }
