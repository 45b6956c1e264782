// Command amdify rewrites ESM import/export syntax into define() loader
// calls. It converts single files or whole trees, reconverts on change, and
// can serve the converter over MCP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "amdify/pkg/mcp"
	"amdify/pkg/mcplog"
	"amdify/pkg/parser"
	"amdify/pkg/transformer"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid %s: %v\n", configFile, err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	command := os.Args[1]
	args := os.Args[2:]

	var runErr error
	switch command {
	case "convert":
		runErr = runConvert(cfg, logger, args)
	case "watch":
		runErr = runWatch(cfg, logger, args)
	case "deps":
		runErr = runDeps(logger, args)
	case "serve":
		runErr = runServe(cfg, logger, args)
	case "version":
		fmt.Printf("amdify %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}

func runConvert(cfg *ProjectConfig, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	write := fs.Bool("write", false, "overwrite source files with converted output")
	outDir := fs.String("out", cfg.OutDir, "write converted files under this directory")
	workers := fs.Int("workers", cfg.Workers, "worker count (0 = auto)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("convert: need a file or directory argument")
	}

	t, err := transformer.New(transformer.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer t.Close()

	root, files, err := collectInputs(fs.Args(), cfg.Patterns)
	if err != nil {
		return err
	}

	runner := transformer.NewRunner(t, transformer.RunnerOptions{
		Mode:    writeMode(*write, *outDir),
		OutDir:  *outDir,
		Root:    root,
		Workers: *workers,
		Logger:  logger,
	})

	start := time.Now()
	stats, err := runner.Run(context.Background(), files)
	if err != nil {
		return err
	}
	logger.Info("conversion finished",
		"files", stats.Converted,
		"failed", stats.Failed,
		"duration", time.Since(start))
	return nil
}

func runWatch(cfg *ProjectConfig, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	write := fs.Bool("write", false, "overwrite source files with converted output")
	outDir := fs.String("out", cfg.OutDir, "write converted files under this directory")
	debounceMs := fs.Int("debounce", cfg.DebounceMs, "debounce window in milliseconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	mode := writeMode(*write, *outDir)
	if mode == transformer.WriteStdout {
		return fmt.Errorf("watch: need --write or --out so results land somewhere")
	}

	t, err := transformer.New(transformer.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer t.Close()

	runner := transformer.NewRunner(t, transformer.RunnerOptions{
		Mode:   mode,
		OutDir: *outDir,
		Root:   root,
		Logger: logger,
	})

	watcher, err := transformer.NewWatcher(runner, time.Duration(*debounceMs)*time.Millisecond, logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(root); err != nil {
		return err
	}
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	return nil
}

func runDeps(logger *slog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("deps: need exactly one file argument")
	}
	path := args[0]

	lang := parser.DetectLanguage(path)
	if lang == parser.LanguageUnknown {
		return fmt.Errorf("unsupported file extension: %s", path)
	}

	t, err := transformer.New(transformer.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer t.Close()

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	deps, err := t.Dependencies(source, lang, parser.IsTSX(path))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(deps)
}

func runServe(cfg *ProjectConfig, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	logPath := fs.String("mcp-log", cfg.MCPLog, "append MCP tool call log entries to this JSONL file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := transformer.New(transformer.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer t.Close()

	callLog, err := mcplog.NewLogger(*logPath)
	if err != nil {
		return err
	}
	if callLog != nil {
		defer callLog.Close()
	}

	logger.Info("starting MCP server", "version", version)
	return mcpserver.NewServer(t, callLog).ServeStdio()
}

// collectInputs resolves command arguments to a root directory and the files
// to convert. A file argument converts just that file; a directory is
// discovered recursively.
func collectInputs(args, patterns []string) (string, []string, error) {
	var files []string
	root := "."
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return "", nil, err
		}
		if info.IsDir() {
			root = arg
			found, err := transformer.Discover(arg, patterns)
			if err != nil {
				return "", nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, arg)
	}
	return root, files, nil
}

func writeMode(write bool, outDir string) transformer.WriteMode {
	switch {
	case write:
		return transformer.WriteInPlace
	case outDir != "":
		return transformer.WriteOutDir
	default:
		return transformer.WriteStdout
	}
}

func printUsage() {
	fmt.Println("Usage: amdify <command> [flags] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  convert    Convert files or directories (stdout, --write, or --out DIR)")
	fmt.Println("  watch      Reconvert files as they change (--write or --out DIR)")
	fmt.Println("  deps       Print the loader dependencies of one file as JSON")
	fmt.Println("  serve      Start the MCP server on stdin/stdout")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
