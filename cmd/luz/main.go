// Package main is the entry point for the Luz interpreter CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/luz-lang/luz/pkg/runtime"
	"github.com/luz-lang/luz/pkg/types"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// manifest is the optional luz.yaml project file.
type manifest struct {
	Main  string `yaml:"main"`
	Debug bool   `yaml:"debug"`
}

var rootCmd = &cobra.Command{
	Use:   "luz [filepath]",
	Short: "Luz language interpreter",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		os.Exit(runFile(args[0], debugEnabled(cmd)))
	},
}

var runCmd = &cobra.Command{
	Use:     "run <filepath>",
	Aliases: []string{"r"},
	Short:   "Run a .luz source file",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runFile(args[0], debugEnabled(cmd)))
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(repl())
	},
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("luz version {{.Version}}\n")

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Dump the final scope after a successful run (env LUZ_DEBUG)")
	rootCmd.AddCommand(runCmd, replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(int(types.KindIncorrectUsage))
	}
}

// debugEnabled layers the debug switch: flag, then environment, then the
// project manifest.
func debugEnabled(cmd *cobra.Command) bool {
	if v, _ := cmd.Flags().GetBool("debug"); v {
		return true
	}
	switch strings.ToLower(envOrDefault("LUZ_DEBUG", "")) {
	case "1", "true", "yes":
		return true
	}
	if m, ok := loadManifest(); ok {
		return m.Debug
	}
	return false
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadManifest reads luz.yaml from the working directory when present.
func loadManifest() (manifest, bool) {
	data, err := os.ReadFile("luz.yaml")
	if err != nil {
		return manifest{}, false
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return manifest{}, false
	}
	return m, true
}

// resolvePath maps "." to the manifest entry point or main.luz.
func resolvePath(path string) string {
	if path != "." {
		return path
	}
	if m, ok := loadManifest(); ok && m.Main != "" {
		return m.Main
	}
	return "main.luz"
}

// errSink returns a function that writes each message as one line to
// stderr, coloured red on terminals.
func errSink() func(string) {
	var out io.Writer = os.Stderr
	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if tty {
		out = colorable.NewColorableStderr()
	}
	return func(msg string) {
		if tty {
			fmt.Fprintf(out, "\x1b[31m%s\x1b[0m\n", msg)
		} else {
			fmt.Fprintln(out, msg)
		}
	}
}

func runFile(path string, debug bool) int {
	errFn := errSink()

	path = resolvePath(path)
	if filepath.Ext(path) != ".luz" {
		errFn(fmt.Sprintf("IncorrectUsage: %q is not a .luz file", path))
		return int(types.KindIncorrectUsage)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			errFn(fmt.Sprintf("FileNotFound: %s", path))
			return int(types.KindFileNotFound)
		case os.IsPermission(err):
			errFn(fmt.Sprintf("PermissionDenied: %s", path))
			return int(types.KindPermissionDenied)
		default:
			errFn(fmt.Sprintf("Error: %v", err))
			return int(types.KindError)
		}
	}

	engine := runtime.NewEngine(runtime.Options{
		Err:      errFn,
		ReadLine: stdinReader(),
	})
	code := engine.Run(string(src))

	if debug && code == int(types.KindSuccess) {
		for _, line := range engine.ScopeDump() {
			errFn(line)
		}
	}
	return code
}

// stdinReader returns a prompt-aware line reader: line-edited via liner on
// a terminal, nil (engine's bufio default) otherwise.
func stdinReader() func(string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil
	}
	return func(prompt string) (string, error) {
		state := liner.NewLiner()
		defer state.Close()
		return state.Prompt(prompt)
	}
}

func repl() int {
	errFn := errSink()
	engine := runtime.NewEngine(runtime.Options{Err: errFn})

	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	defer state.Close()

	fmt.Printf("luz %s — :quit to exit\n", version)
	for {
		line, err := state.Prompt("luz> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return int(types.KindSuccess)
		}
		if err != nil {
			errFn(fmt.Sprintf("Error: %v", err))
			return int(types.KindError)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return int(types.KindSuccess)
		}
		state.AppendHistory(line)

		v, err := engine.EvalLine(line)
		if err != nil {
			errFn(err.Error())
			continue
		}
		fmt.Println(types.FormatDebug(v))
	}
}
