package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/datascribe/schemaviz/render"
	"github.com/datascribe/schemaviz/source"
)

const stdinFileName = "-"

type renderFlags struct {
	flags
	outputPath *cli.StringFlag
	engine     *cli.StringFlag
	format     *cli.StringFlag
	seed       *cli.Int64Flag
	style      *cli.StringFlag
	workers    *cli.IntFlag
}

func newRenderFlags(f flags) renderFlags {
	return renderFlags{
		flags: f,
		outputPath: &cli.StringFlag{
			Name:    "output",
			Usage:   "artifact path, or a directory when rendering several inputs",
			Aliases: []string{"o"},
		},
		engine: &cli.StringFlag{
			Name:  "engine",
			Usage: "graphviz layout engine: neato, dot, fdp, sfdp, circo, twopi",
		},
		format: &cli.StringFlag{
			Name:  "format",
			Usage: "artifact format: png, svg, jpg",
		},
		seed: &cli.Int64Flag{
			Name:  "seed",
			Usage: "pin down randomized layouts",
		},
		style: &cli.StringFlag{
			Name:      "style",
			Usage:     "lua script with a node_style hook",
			TakesFile: true,
		},
		workers: &cli.IntFlag{
			Name:  "workers",
			Value: runtime.GOMAXPROCS(0),
			Usage: "max parallel renders",
		},
	}
}

func (rf *renderFlags) Set() []cli.Flag {
	return append(rf.flags.Set(),
		rf.outputPath,
		rf.engine,
		rf.format,
		rf.seed,
		rf.style,
		rf.workers,
	)
}

// renderConfig merges flag overrides over the file config.
func (rf *renderFlags) renderConfig(ctx *cli.Context, base render.Config) render.Config {
	cnf := base
	if v := rf.engine.Get(ctx); v != "" {
		cnf.Engine = v
	}
	if v := rf.format.Get(ctx); v != "" {
		cnf.Format = v
	}
	if v := rf.seed.Get(ctx); v != 0 {
		cnf.Seed = v
	}
	if v := rf.style.Get(ctx); v != "" {
		cnf.Style = v
	}
	return cnf
}

type renderCommand struct {
	rf renderFlags
	BaseCommand
}

func NewRenderCommand(f flags) *renderCommand {
	return &renderCommand{rf: newRenderFlags(f)}
}

func (p *renderCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "render",
		Description: "render schema descriptions into images",
		ArgsUsage:   "FILE...",
		Flags:       p.rf.Set(),
		Before:      p.init,
		Action:      p.run,
	}
}

func (p *renderCommand) init(ctx *cli.Context) error {
	base, err := NewBase(ctx, p.rf.flags)
	if err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	return nil
}

func (p *renderCommand) run(ctx *cli.Context) error {
	inputs := ctx.Args().Slice()
	if len(inputs) == 0 {
		return cli.Exit("no input files given", 2)
	}

	cnf := p.rf.renderConfig(ctx, p.cnf.Render)
	if err := cnf.Validate(); err != nil {
		return xerrors.Errorf("validate render config: %w", err)
	}

	output := p.rf.outputPath.Get(ctx)
	if len(inputs) > 1 && output != "" && !isDirPath(output) {
		return cli.Exit("output must be a directory when rendering several inputs", 2)
	}

	// a renderer per input: the lua state of a style hook is not safe to
	// share across goroutines
	g, gctx := errgroup.WithContext(ctx.Context)
	g.SetLimit(p.rf.workers.Get(ctx))
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			r, err := render.New(p.log, cnf)
			if err != nil {
				return xerrors.Errorf("create renderer: %w", err)
			}
			defer r.Close()
			return p.renderInput(gctx, r, cnf, input, output)
		})
	}
	return g.Wait()
}

func (b *BaseCommand) renderInput(ctx context.Context, r *render.Renderer, cnf render.Config, input, output string) error {
	g, err := b.buildGraph(ctx, source.File{Path: input})
	if err != nil {
		return xerrors.Errorf("input %q: %w", input, err)
	}

	path, err := artifactPath(output, b.cnf.Output, input, cnf.Ext(), g.Fingerprint())
	if err != nil {
		return err
	}
	if err := r.RenderFile(g, path); err != nil {
		return xerrors.Errorf("render %q: %w", input, err)
	}
	return nil
}

func isDirPath(path string) bool {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// artifactPath picks the file the artifact is written to. An explicit
// output file path wins; output directories and the configured output dir
// get a name derived from the input and the graph fingerprint.
func artifactPath(output, defaultDir, input, ext string, fingerprint uint64) (string, error) {
	dir := defaultDir
	switch {
	case output != "" && !isDirPath(output):
		return output, nil
	case output != "":
		dir = output
	}
	if err := createDirIfNotExist(dir); err != nil {
		return "", xerrors.Errorf("create output dir: %w", err)
	}
	return filepath.Join(dir, derivedArtifactName(input, ext, fingerprint)), nil
}

// derivedArtifactName folds the graph fingerprint into the name, so two
// inputs that share a basename render into distinct files instead of
// silently replacing each other.
func derivedArtifactName(input, ext string, fingerprint uint64) string {
	fp := fmt.Sprintf("%016x", fingerprint)
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == stdinFileName || base == "." || base == "" {
		return fp + "." + ext
	}
	return base + "-" + fp + "." + ext
}
