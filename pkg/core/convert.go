package core

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"upmconv/pkg/progress"

	"github.com/rs/zerolog/log"
)

// Convert runs the whole pipeline: parse the source archive from r, then
// write the converted package to w under the manifest's root directory.
// The returned warnings describe source entries that were skipped.
func Convert(r io.Reader, w io.Writer, manifest Manifest, opts Options) ([]Warning, error) {
	entries, warnings, err := ReadPackage(r, opts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("entries", len(entries)).
		Int("skipped", len(warnings)).
		Str("package", manifest.RootDir()).
		Msg("resolved source archive")

	if err := WritePackage(w, manifest.RootDir(), manifest.Raw, entries, opts); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ConvertFile converts the archive at srcPath using the manifest at
// manifestPath and writes the result to outPath. The manifest is validated
// before any archive processing, and the output file is only created once the
// whole conversion has succeeded, so a failed run leaves nothing behind.
func ConvertFile(srcPath, manifestPath, outPath string, opts Options) ([]Warning, error) {
	manifest, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source archive: %w", err)
	}
	defer src.Close()

	if info, err := src.Stat(); err == nil {
		progress.Init(uint64(info.Size()))
		defer progress.Stop()
	}

	var out bytes.Buffer
	warnings, err := Convert(src, &out, manifest, opts)
	if err != nil {
		return warnings, err
	}

	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		return warnings, &ArchiveWriteError{Err: fmt.Errorf("write %s: %w", outPath, err)}
	}
	return warnings, nil
}
