// Command formsync-cli loads a server-rendered page, replays user actions
// against it and prints the settled HTML.
//
//	formsync-cli --action click:add-doc --action 'input:id_documentation_items-0-url=https://example.com/README.md' page.html
//	formsync-cli --sample --interactive
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	formsync "github.com/goliatone/go-formsync"
	"github.com/goliatone/go-formsync/pkg/config"
	"github.com/goliatone/go-formsync/pkg/page"
	"github.com/goliatone/go-formsync/pkg/render/template/gotemplate"
)

const sampleName = "schema_edit.html"

type cliOptions struct {
	configPath  string
	templateDir string
	actions     []string
	output      string
	logLevel    string
	sample      bool
	interactive bool
	submissions bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, newSurveyPrompter()); err != nil {
		fmt.Fprintf(os.Stderr, "formsync-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, prompter Prompter) error {
	var opts cliOptions
	flags := pflag.NewFlagSet("formsync-cli", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.configPath, "config", "c", "", "behavior config file (.yaml, .yml, .json, .jsonc)")
	flags.StringVar(&opts.templateDir, "templates", "", "directory with additional item templates")
	flags.StringArrayVarP(&opts.actions, "action", "a", nil, "action to replay: click:<id>, input:<id>=<value>, change:<id>=<value>, wait:<duration>")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.sample, "sample", false, "load the bundled sample page instead of a file")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for actions after replaying the script")
	flags.BoolVar(&opts.submissions, "submissions", false, "print recorded auto-submissions to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	source, err := readSource(opts, flags.Args())
	if err != nil {
		return err
	}

	pageOpts, err := buildOptions(opts, logger)
	if err != nil {
		return err
	}
	p, err := formsync.Load(bytes.NewReader(source), pageOpts...)
	if err != nil {
		return err
	}
	if err := p.InstallError(); err != nil {
		logger.Warn("some behaviors failed to install", "error", err)
	}

	for _, raw := range opts.actions {
		action, err := ParseAction(raw)
		if err != nil {
			return err
		}
		if err := action.Apply(p); err != nil {
			return err
		}
		logger.Debug("action applied", "action", raw)
	}
	if opts.interactive {
		if err := Interactive(ctx, p, prompter); err != nil {
			return err
		}
	}

	html, err := p.HTML()
	if err != nil {
		return err
	}
	if opts.submissions {
		for _, sub := range p.Submissions() {
			fmt.Fprintf(stderr, "submitted #%s %s?%s\n", sub.FormID, sub.Action, sub.Values.Encode())
		}
	}
	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stderr, "Page written to %s\n", opts.output)
		return nil
	}
	_, err = io.WriteString(stdout, html)
	return err
}

func readSource(opts cliOptions, args []string) ([]byte, error) {
	if opts.sample {
		return fs.ReadFile(formsync.SamplePagesFS(), sampleName)
	}
	if len(args) != 1 {
		return nil, errors.New("expected exactly one page file (or --sample)")
	}
	if args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return data, nil
}

func buildOptions(opts cliOptions, logger *slog.Logger) ([]page.Option, error) {
	pageOpts, err := formsync.DefaultOptions()
	if err != nil {
		return nil, err
	}
	if opts.templateDir != "" {
		renderer, err := formsync.NewItemRenderer(gotemplate.WithBaseDir(opts.templateDir))
		if err != nil {
			return nil, err
		}
		pageOpts = append(pageOpts, page.WithItemRenderer(renderer))
	}
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		pageOpts = append(pageOpts, page.WithConfig(cfg))
	}
	return append(pageOpts, page.WithLogger(logger)), nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
