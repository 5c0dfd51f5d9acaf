package main

import (
	"errors"
	"fmt"
	"os"

	"upmconv/pkg/core"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	opts, paths := parseArgs(os.Args[1:])
	if len(paths) != 3 {
		printUsage()
		os.Exit(1)
	}

	warnings, err := core.ConvertFile(paths[0], paths[1], paths[2], opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while %s: %v\n", stageOf(err), err)
		os.Exit(1)
	}

	if len(warnings) > 0 {
		fmt.Fprintf(os.Stderr, "%d source entries could not be converted:\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "  %s\n", w)
		}
	}
	fmt.Printf("Wrote %s\n", paths[2])
}

// printUsage prints the command-line usage information
func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  ./upmconv [flags] package.unitypackage package.json output.zip")
	fmt.Println("Flags:")
	fmt.Println("  --strict              fail on the first source entry that cannot be converted")
	fmt.Println("  --fail-on-collision   fail when two entries resolve to the same output path")
}

// parseArgs separates flags from the three positional arguments
func parseArgs(args []string) (core.Options, []string) {
	var opts core.Options
	var paths []string
	for _, arg := range args {
		switch arg {
		case "--strict":
			opts.Strict = true
		case "--fail-on-collision":
			opts.FailOnCollision = true
		default:
			paths = append(paths, arg)
		}
	}
	return opts, paths
}

// stageOf names the conversion stage an error came from, for the operator
func stageOf(err error) string {
	var (
		manifestErr   *core.ManifestError
		decompressErr *core.DecompressionError
		conflictErr   *core.WriteConflictError
		writeErr      *core.ArchiveWriteError
	)
	switch {
	case errors.As(err, &manifestErr):
		return "reading manifest"
	case errors.As(err, &decompressErr):
		return "reading source archive"
	case errors.As(err, &conflictErr), errors.As(err, &writeErr):
		return "writing output archive"
	}
	return "converting"
}
