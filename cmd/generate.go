package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vcppgen/vcppgen/internal/config"
	"github.com/vcppgen/vcppgen/internal/generator"
	"github.com/vcppgen/vcppgen/internal/project"
	"github.com/vcppgen/vcppgen/pkg/log"
)

// options holds the long options accepted before the project name.
type options struct {
	manifest    string
	projectGuid bool
	dryRun      bool
	logLevel    string
	logFile     string
	version     bool

	flags *pflag.FlagSet
}

func newOptions() *options {
	o := &options{}
	fs := pflag.NewFlagSet("vcppgen", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	// Parsing stops at the project name so -c, -dll and -lib stay positional.
	fs.SetInterspersed(false)
	fs.StringVar(&o.manifest, "manifest", "", "read the project from a YAML manifest")
	fs.BoolVar(&o.projectGuid, "project-guid", false, "emit a deterministic ProjectGuid")
	fs.BoolVar(&o.dryRun, "dry-run", false, "print the changes instead of writing the project file")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&o.logFile, "log-file", "", "append logs to this file instead of stderr")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	o.flags = fs
	return o
}

// runGenerate parses the options and the project grammar, then writes
// <name>.vcxproj into the current directory.
//
// Parameters:
//   - args: Every command-line token after the program name.
//   - out: Destination of warnings and informational output.
//
// Returns:
//   - error: A grammar, artifact or I/O error.
func runGenerate(args []string, out io.Writer) error {
	opts := newOptions()
	if err := opts.flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(out)
			fmt.Fprintf(out, "\nOptions:\n%s", opts.flags.FlagUsages())
			return nil
		}
		return err
	}
	if opts.version {
		fmt.Fprintf(out, "vcppgen %s\n", version())
		return nil
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	var p *project.Project
	if opts.manifest != "" {
		if p, err = loadManifest(opts, root, out); err != nil {
			return err
		}
	} else {
		if err := initLogging(config.LoggingConfig{Level: opts.logLevel, Path: opts.logFile}); err != nil {
			return err
		}
		if p, err = project.Parse(opts.flags.Args(), root, out); err != nil {
			return err
		}
	}

	slog.Debug("project parsed", "name", p.Name, "toolset", p.Toolset, "configurations", len(p.Configurations))

	_, err = generator.Generate(p, root, generator.Options{
		ProjectGuid: opts.projectGuid,
		DryRun:      opts.dryRun,
		Out:         out,
	})
	return err
}

// loadManifest builds the project from --manifest. Options given on the
// command line take precedence over the manifest's own settings.
func loadManifest(opts *options, root string, out io.Writer) (*project.Project, error) {
	if rest := opts.flags.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments with --manifest: %s", strings.Join(rest, " "))
	}

	cfg, err := config.Load(opts.manifest)
	if err != nil {
		return nil, err
	}
	if opts.flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.flags.Changed("log-file") {
		cfg.Logging.Path = opts.logFile
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := initLogging(cfg.Logging); err != nil {
		return nil, err
	}
	if cfg.Project.ProjectGuid {
		opts.projectGuid = true
	}

	slog.Debug("manifest loaded", "path", opts.manifest)
	return cfg.Build(root, out)
}

func initLogging(logging config.LoggingConfig) error {
	if err := config.ValidateLogging(logging); err != nil {
		return err
	}
	if err := log.Init(logging.Path, logging.Level); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	return nil
}
