package config

// This file implements CLI flag parsing and help text. The first argument
// selects the subcommand; each subcommand gets its own FlagSet. Standard
// flag package semantics apply: flags come before positional arguments.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (unknown flag,
// unknown command, missing positional args).
func ParseFlags(cfg *Config, args []string, version string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	case "-V", "--version", "version":
		fmt.Fprintln(os.Stdout, "reelforge v"+version)
		os.Exit(0)
	}

	cfg.Command = Command(args[0])
	rest := args[1:]

	fs := flag.NewFlagSet(string(cfg.Command), flag.ContinueOnError)
	fs.Usage = printUsage

	defineCommonFlags(fs, cfg)
	switch cfg.Command {
	case CmdRender:
		defineRenderFlags(fs, cfg)
	case CmdStitch:
		fs.StringVar(&cfg.StitchOutput, "output", cfg.StitchOutput,
			"Output file (absolute, or relative to the run directory)")
		fs.StringVar(&cfg.StitchOutput, "o", cfg.StitchOutput, "Same as --output")
	case CmdSubtitles:
		fs.StringVar(&cfg.SubsOutput, "output", "",
			"Output SRT file (default: final.srt next to the manifest)")
		fs.StringVar(&cfg.SubsOutput, "o", "", "Same as --output")
	}

	if err := fs.Parse(rest); err != nil {
		return err
	}

	// The config file loses to flags the user actually passed.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if cfg.ConfigFile != "" {
		if err := ApplyFile(cfg, cfg.ConfigFile, set); err != nil {
			return err
		}
	}

	return parsePositionalArgs(fs, cfg)
}

// defineCommonFlags registers the flags every subcommand accepts.
func defineCommonFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputRoot, "output-root", cfg.OutputRoot, "Root directory for run-scoped outputs")
	fs.StringVar(&cfg.RunID, "run-id", "", "Run identifier (default: a fresh UUID)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Log colors: auto | always | never")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
}

// defineRenderFlags registers -q/--quality, -j/--jobs, and the timeouts.
func defineRenderFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&qualityValue{&cfg.Quality}, "quality", "Render quality: l | m | h")
	fs.Var(&qualityValue{&cfg.Quality}, "q", "Same as --quality")
	fs.IntVar(&cfg.MaxJobs, "jobs", cfg.MaxJobs, "Max concurrent engine processes (0 = unbounded)")
	fs.IntVar(&cfg.MaxJobs, "j", cfg.MaxJobs, "Same as --jobs")
	fs.DurationVar(&cfg.RenderTimeout, "timeout", cfg.RenderTimeout, "Per-scene engine timeout")
}

// parsePositionalArgs distributes the remaining arguments per subcommand.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch cfg.Command {
	case CmdRender:
		if len(args) < 2 {
			return fmt.Errorf("render needs a script file and at least one scene name")
		}
		cfg.ScriptPath = args[0]
		cfg.Scenes = args[1:]
	case CmdStitch:
		if len(args) < 1 {
			return fmt.Errorf("stitch needs at least one input video")
		}
		cfg.Videos = args
	case CmdSubtitles:
		if len(args) != 1 {
			return fmt.Errorf("subtitles needs exactly one order manifest file")
		}
		cfg.OrderFile = args[0]
	case CmdCheck:
		if len(args) != 0 {
			return fmt.Errorf("check takes no arguments")
		}
	}
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage() {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "reelforge: parallel scene renderer and video stitcher"},
		{"", ""},
		{"  reelforge render <script> <scene...> [options]", ""},
		{"  reelforge stitch <video...> [options]", ""},
		{"  reelforge subtitles <order.txt> [options]", ""},
		{"  reelforge check", ""},
		{"", ""},
		{"Render", ""},
		{"  -q, --quality <l|m|h>", "Render quality (default: l = 480p15)"},
		{"  -j, --jobs <n>", "Max concurrent engine processes (0 = unbounded)"},
		{"  --timeout <dur>", "Per-scene engine timeout (default: 10m)"},
		{"", ""},
		{"Stitch & subtitles", ""},
		{"  -o, --output <path>", "Output file (relative paths are run-scoped)"},
		{"", ""},
		{"Common", ""},
		{"  --output-root <dir>", "Root for run-scoped outputs (default: /tmp/reelforge)"},
		{"  --run-id <id>", "Reuse a run identifier (default: fresh UUID)"},
		{"  --config <file>", "YAML config file (binaries, defaults)"},
		{"  --color <auto|always|never>", "Log color mode"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -v, --verbose", "Verbose output"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"", "Results are emitted as JSON on stdout; logs go to stderr."},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so enum types (Quality, ColorMode) work with flag.Var.

type qualityValue struct{ p *Quality }

func (q *qualityValue) String() string {
	if q.p == nil {
		return ""
	}
	return string(*q.p)
}

func (q *qualityValue) Set(s string) error {
	parsed, err := ParseQuality(s)
	if err != nil {
		return err
	}
	*q.p = parsed
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use auto|always|never)", s)
	}
	return nil
}
