package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// errUsage marks errors caused by bad command lines; they exit with status 2.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "vision-tools: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "vision-tools: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a subcommand. Results go to stdout, logs and diagnostics to
// stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stderr)
		return fmt.Errorf("%w: no command given", errUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "transform":
		return runTransform(rest, stderr)
	case "filter":
		return runFilter(rest, stderr)
	case "threshold":
		return runThreshold(rest, stderr)
	case "plate":
		return runPlate(ctx, rest, stdout, stderr, false)
	case "cascade":
		return runPlate(ctx, rest, stdout, stderr, true)
	case "serve":
		return runServe(ctx, rest, stderr)
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "vision-tools %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	case "--help", "-h", "help":
		printHelp(stdout)
		return nil
	}

	printHelp(stderr)
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "vision-tools - image operations and license plate reading")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: vision-tools <command> [flags] [files]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  transform    Translate, rotate, scale, shear, reflect or crop an image")
	fmt.Fprintln(w, "  filter       Apply a named filter (sharpen, gaussian, median, canny, ...)")
	fmt.Fprintln(w, "  threshold    Binarize an image")
	fmt.Fprintln(w, "  plate        Locate plates by contours and read them")
	fmt.Fprintln(w, "  cascade      Locate plates with a Haar cascade and read them")
	fmt.Fprintln(w, "  serve        Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  version      Print version information")
	fmt.Fprintln(w, "  help         Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'vision-tools <command> -h' for command flags.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  VISION_LOG_LEVEL=debug            Log level (debug, info, warn, error)")
	fmt.Fprintln(w, "  VISION_TESSDATA_PREFIX=<dir>      Tesseract language data directory")
	fmt.Fprintln(w, "  VISION_CASCADE_PATH=<file>        Haar cascade XML file")
	fmt.Fprintln(w, "  VISION_OCR_LANGUAGE=eng           Tesseract language")
}
