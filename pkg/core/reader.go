package core

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"strings"

	"upmconv/pkg/progress"

	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog/log"
)

// Magic bytes identifying the supported outer compression schemes.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// group collects the members discovered under one GUID directory of the
// source archive. It only lives for the duration of the read pass.
type group struct {
	id      string
	members map[string][]byte
}

// ReadPackage decompresses and parses a Unity package stream into the logical
// entries it can reconstruct, in first-encounter order, plus one warning per
// group it had to skip. With Options.Strict the first skip aborts instead.
func ReadPackage(r io.Reader, opts Options) ([]LogicalEntry, []Warning, error) {
	index, order, err := indexMembers(r)
	if err != nil {
		return nil, nil, err
	}
	return resolveGroups(index, order, opts)
}

// indexMembers walks the tar stream and groups every regular file by its GUID
// (first path segment). Building the full index before resolving anything
// avoids lookahead on the tar reader: pathname may arrive before or after the
// asset it names.
func indexMembers(r io.Reader) (map[string]*group, []string, error) {
	br := bufio.NewReader(&progress.Reader{R: r})
	head, err := br.Peek(4)
	if err != nil && len(head) < 2 {
		return nil, nil, &DecompressionError{Stage: "decompress", Err: fmt.Errorf("source too short to identify compression: %w", err)}
	}

	var tr *tar.Reader
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, &DecompressionError{Stage: "decompress", Err: err}
		}
		defer zr.Close()
		tr = tar.NewReader(zr)
	case bytes.HasPrefix(head, lz4Magic):
		tr = tar.NewReader(lz4.NewReader(br))
	default:
		return nil, nil, &DecompressionError{Stage: "decompress", Err: fmt.Errorf("unsupported compression scheme (magic %x)", head)}
	}

	index := make(map[string]*group)
	var order []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Corruption in the compressed stream also surfaces here, once the
			// tar reader pulls on it.
			return nil, nil, &DecompressionError{Stage: "parse", Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		id, member, ok := splitMemberPath(hdr.Name)
		if !ok {
			log.Debug().Str("entry", hdr.Name).Msg("ignoring entry outside the guid/member layout")
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, nil, &DecompressionError{Stage: "parse", Err: fmt.Errorf("read %s: %w", hdr.Name, err)}
		}

		g, seen := index[id]
		if !seen {
			g = &group{id: id, members: make(map[string][]byte)}
			index[id] = g
			order = append(order, id)
		}
		// Duplicate members should not occur in a well-formed package; the
		// last one seen wins.
		g.members[member] = data
	}
	return index, order, nil
}

// splitMemberPath splits a tar entry name into its GUID directory and member
// name. Entries that are not exactly two segments deep belong to no group.
func splitMemberPath(name string) (id, member string, ok bool) {
	name = strings.Trim(path.Clean(name), "/")
	parts := strings.Split(name, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// resolveGroups turns the member index into logical entries, skipping groups
// that cannot be reconstructed from the members present.
func resolveGroups(index map[string]*group, order []string, opts Options) ([]LogicalEntry, []Warning, error) {
	entries := make([]LogicalEntry, 0, len(order))
	var warnings []Warning

	skip := func(id, reason string) error {
		if opts.Strict {
			return fmt.Errorf("entry %s: %s", id, reason)
		}
		log.Warn().Str("guid", id).Msg("skipping entry: " + reason)
		warnings = append(warnings, Warning{ID: id, Reason: reason})
		return nil
	}

	for _, id := range order {
		g := index[id]

		for member := range g.members {
			switch member {
			case MemberAsset, MemberMeta, MemberPathname, MemberPreview:
			default:
				log.Warn().Str("guid", id).Str("member", member).Msg("ignoring unrecognized asset component")
			}
		}

		raw, ok := g.members[MemberPathname]
		if !ok {
			// Directories and asset kinds the source format does not fully
			// describe carry no pathname member.
			if err := skip(id, "no pathname member, cannot place entry"); err != nil {
				return nil, nil, err
			}
			continue
		}

		rel, err := resolveRelPath(string(raw), id)
		if err != nil {
			if err := skip(id, err.Error()); err != nil {
				return nil, nil, err
			}
			continue
		}

		payload, ok := g.members[MemberAsset]
		if !ok {
			if err := skip(id, "pathname present but no asset member"); err != nil {
				return nil, nil, err
			}
			continue
		}

		entries = append(entries, LogicalEntry{ID: id, RelPath: rel, Payload: payload})
	}
	return entries, warnings, nil
}

// resolveRelPath turns the raw content of a pathname member into a safe
// relative path below the package root.
func resolveRelPath(raw, id string) (string, error) {
	// Some exporters append a second line with asset kind flags; only the
	// first line is the path.
	if i := strings.IndexAny(raw, "\r\n"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimRight(raw, " \t")

	if trimmed, ok := strings.CutPrefix(raw, AssetsPrefix); ok {
		raw = trimmed
	} else {
		log.Warn().Str("guid", id).Str("path", raw).Msg("pathname not rooted under Assets/")
	}

	if raw == "" {
		return "", fmt.Errorf("empty pathname")
	}
	cleaned := path.Clean(strings.ReplaceAll(raw, `\`, "/"))
	if cleaned == "." || cleaned == "/" {
		return "", fmt.Errorf("pathname %q resolves to nothing", raw)
	}
	if strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("pathname %q escapes the package root", raw)
	}
	return cleaned, nil
}
