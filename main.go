package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"safariconverter/config"
	"safariconverter/converter"
	"safariconverter/distributor"
	"safariconverter/logging"
	"safariconverter/parser"
)

type flags struct {
	configPath             string
	safariVersion          int
	optimize               bool
	advancedBlocking       bool
	advancedBlockingFormat string
	outputJSON             string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "safari-converter",
		Short: "Convert AdGuard filter rules into Safari content blocker JSON",
		Long: `Reads filter rules from standard input, or from the sources of a config file,
and writes a Safari content blocker list.

  cat rules.txt | safari-converter --safari-version 15 --optimize --advanced-blocking -f txt`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "path to a conversion profile (YAML)")
	fs.IntVarP(&f.safariVersion, "safari-version", "s", 0, "target Safari version (11-16)")
	fs.BoolVarP(&f.optimize, "optimize", "o", false, "merge and deduplicate compiled rules")
	fs.BoolVarP(&f.advancedBlocking, "advanced-blocking", "a", false, "convert scripts, scriptlets and extended CSS")
	fs.StringVarP(&f.advancedBlockingFormat, "advanced-blocking-format", "f", "", "advanced blocking output format: json or txt")
	fs.StringVarP(&f.outputJSON, "output-json", "O", "", "output JSON filename")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	cfg := config.Default()
	baseDir := ""
	if f.configPath != "" {
		mgr := config.NewManager(f.configPath)
		if err := mgr.Load(); err != nil {
			return err
		}
		cfg = mgr.Get()
		baseDir = mgr.BaseDir()
	}
	applyFlags(cmd, f, cfg)

	version, format, err := cfg.Resolve()
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log, cmd.ErrOrStderr())
	log.Info().
		Stringer("safari_version", version).
		Bool("optimize", cfg.Optimize).
		Bool("advanced_blocking", cfg.AdvancedBlocking).
		Str("advanced_blocking_format", string(format)).
		Msg("Starting conversion")

	rules, err := readRules(cfg, baseDir, cmd.InOrStdin())
	if err != nil {
		return err
	}
	log.Info().Int("rules", len(rules)).Msg("Rules to convert")

	result, err := converter.New(log).ConvertArray(rules, converter.Options{
		Version:                version,
		Optimize:               cfg.Optimize,
		AdvancedBlocking:       cfg.AdvancedBlocking,
		AdvancedBlockingFormat: format,
	})
	if err != nil {
		return err
	}
	log.Info().Msg("Conversion done")

	printSummary(cmd.OutOrStdout(), result)

	if err := os.WriteFile(cfg.Output, []byte(result.Converted), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "JSON Output: %s\n", cfg.Output)

	if cfg.AdvancedOutput != "" && cfg.AdvancedBlocking {
		advanced := result.AdvancedBlocking
		if result.AdvancedBlockingText != "" {
			advanced = result.AdvancedBlockingText
		}
		if err := os.WriteFile(cfg.AdvancedOutput, []byte(advanced), 0o644); err != nil {
			return fmt.Errorf("failed to write advanced output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Advanced Output: %s\n", cfg.AdvancedOutput)
	}

	return nil
}

// applyFlags overrides profile values with the flags given on the command line.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("safari-version") {
		cfg.SafariVersion = f.safariVersion
	}
	if fs.Changed("optimize") {
		cfg.Optimize = f.optimize
	}
	if fs.Changed("advanced-blocking") {
		cfg.AdvancedBlocking = f.advancedBlocking
	}
	if fs.Changed("advanced-blocking-format") {
		cfg.AdvancedBlockingFormat = f.advancedBlockingFormat
	}
	if fs.Changed("output-json") {
		cfg.Output = f.outputJSON
	}
}

func newLogger(lc config.LogConfig, out io.Writer) zerolog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Out = out
	if level, ok := logging.ParseLevel(lc.Level); ok {
		cfg.Level = level
	}
	if format, ok := logging.ParseFormat(lc.Format); ok {
		cfg.Format = format
	}
	return logging.New(logging.ApplyEnv(cfg))
}

// readRules reads the configured sources in order, or stdin when there are none.
func readRules(cfg *config.Config, baseDir string, stdin io.Reader) ([]string, error) {
	if len(cfg.Sources) == 0 {
		return parser.ReadLines(stdin)
	}

	loader := parser.NewLoader(baseDir)
	var rules []string
	for _, src := range cfg.Sources {
		lines, err := loader.LoadFromPath(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load source '%s': %w", src.Name, err)
		}
		rules = append(rules, lines...)
	}
	return rules, nil
}

func printSummary(w io.Writer, r *distributor.ConversionResult) {
	fmt.Fprintf(w, "Total ConvertedCount Count: %d\n", r.TotalConvertedCount)
	fmt.Fprintf(w, "Errors Count: %d\n", r.ErrorsCount)
	fmt.Fprintf(w, "Converted Count: %d\n", r.ConvertedCount)
	fmt.Fprintf(w, "Advanced Blocking Converted Count: %d\n", r.AdvancedBlockingConvertedCount)
	fmt.Fprintf(w, "Over Limit: %t\n", r.OverLimit)
	fmt.Fprintf(w, "%s\n", r.Message)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
