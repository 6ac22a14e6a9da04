package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/datascribe/schemaviz/graph"
	"github.com/datascribe/schemaviz/source"
)

type dumpFlags struct {
	flags
	outputPath *cli.StringFlag
}

func (df *dumpFlags) Set() []cli.Flag {
	return append(df.flags.Set(),
		df.outputPath,
	)
}

type dumpCommand struct {
	df dumpFlags
	BaseCommand
}

func NewDumpCommand(f flags) *dumpCommand {
	return &dumpCommand{
		df: dumpFlags{
			flags: f,
			outputPath: &cli.StringFlag{
				Name:    "output",
				Value:   "dump",
				Usage:   "directory the dumps are written into",
				Aliases: []string{"o"},
			},
		},
	}
}

func (p *dumpCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "dump",
		Description: "dump the graph as dot, plantuml and json",
		ArgsUsage:   "FILE",
		Flags:       p.df.Set(),
		Before:      p.init,
		Action:      p.run,
	}
}

func (p *dumpCommand) init(ctx *cli.Context) error {
	base, err := NewBase(ctx, p.df.flags)
	if err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	return nil
}

func (p *dumpCommand) run(ctx *cli.Context) error {
	input := ctx.Args().First()
	if input == "" {
		return cli.Exit("no input file given", 2)
	}

	g, err := p.buildGraph(ctx.Context, source.File{Path: input})
	if err != nil {
		return fmt.Errorf("input %q: %w", input, err)
	}

	return p.dump(g, p.df.outputPath.Get(ctx))
}

func (p *dumpCommand) dump(g *graph.Graph, dumpPath string) error {
	slog := p.log.Sugar()

	if err := createDirIfNotExist(dumpPath); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}

	dotDumpPath := filepath.Join(dumpPath, "graph.dot")
	slog.Infof("dump dot to %q", dotDumpPath)
	if err := dumpTemplate(dotDumpPath, g, graph.DumpDotTemplate); err != nil {
		return fmt.Errorf("failed to dump dot: %w", err)
	}

	pumlDumpPath := filepath.Join(dumpPath, "graph.puml")
	slog.Infof("dump graph to %q", pumlDumpPath)
	if err := dumpTemplate(pumlDumpPath, g, graph.DumpPumlTemplate); err != nil {
		return fmt.Errorf("failed to dump plantuml: %w", err)
	}

	jsonDumpPath := filepath.Join(dumpPath, "graph.json")
	slog.Infof("dump json to %q", jsonDumpPath)
	if err := dumpToFile(jsonDumpPath, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(g)
	}); err != nil {
		return fmt.Errorf("failed to dump json: %w", err)
	}

	return nil
}

func createDirIfNotExist(path string) error {
	fileInfo, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(path, 0o755) //nolint:gomnd // dir mode
	case err != nil:
		return err
	case !fileInfo.IsDir():
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
	}
	return nil
}

func dumpTemplate(fileName string, g *graph.Graph, tpl graph.TemplateName) error {
	return dumpToFile(fileName, func(w io.Writer) error {
		return g.Dump(w, tpl)
	})
}

func dumpToFile(fileName string, f func(w io.Writer) error) (err error) {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("create output file for dump: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return f(file)
}
