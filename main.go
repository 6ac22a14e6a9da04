package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"

	"github.com/urfave/cli/v2"

	"github.com/datascribe/schemaviz/graph"
	"github.com/datascribe/schemaviz/schema"
	"github.com/datascribe/schemaviz/source"
)

func newLogger(debug bool) (*zap.Logger, error) {
	lc := zap.NewDevelopmentConfig()
	lc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	lc.DisableStacktrace = true
	if debug {
		lc.Level.SetLevel(zap.DebugLevel)
	} else {
		lc.Level.SetLevel(zap.InfoLevel)
	}
	return lc.Build()
}

type flags struct {
	configPath *cli.StringFlag
	debug      *cli.BoolFlag
}

func (f *flags) Set() []cli.Flag {
	return []cli.Flag{
		f.configPath,
		f.debug,
	}
}

func main() {
	f := flags{
		configPath: &cli.StringFlag{
			Name:      "config",
			Value:     "schemaviz.yml",
			Usage:     "config file path",
			TakesFile: true,
			Aliases:   []string{"c"},
		},
		debug: &cli.BoolFlag{
			Name:   "debug",
			Value:  false,
			Usage:  "show debug information",
			Hidden: true,
		},
	}

	app := &cli.App{
		Name:        "schemaviz",
		Description: "schema description visualisation tool",
		Flags:       f.Set(),
		Commands: []*cli.Command{
			NewRenderCommand(f).Command(),
			NewDumpCommand(f).Command(),
			NewWatchCommand(f).Command(),
		},
		ExitErrHandler: func(ctx *cli.Context, err error) {
			if err == nil {
				return
			}
			if f.debug.Get(ctx) {
				fmt.Printf("%+v\n", err)
			} else {
				fmt.Printf("%v\n", err)
			}
			os.Exit(1)
		},
		EnableBashCompletion: true,
	}
	if err := app.Run(os.Args); err != nil {
		println(err.Error())
		os.Exit(2)
	}
}

type BaseCommand struct {
	log *zap.Logger
	cnf *AppConfig
}

func NewBase(ctx *cli.Context, f flags) (BaseCommand, error) {
	var empty BaseCommand
	log, err := newLogger(f.debug.Get(ctx))
	if err != nil {
		return empty, xerrors.Errorf("create logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	confPath := f.configPath.Get(ctx)
	cnf, err := ReadConfig(confPath)
	switch {
	case err == nil:
		log.Debug("config loaded", zap.String("path", confPath))
	case errors.Is(err, fs.ErrNotExist) && !ctx.IsSet(f.configPath.Name):
		// the default config file is optional
		cnf = DefaultConfig()
		log.Debug("no config file, using defaults")
	default:
		return empty, xerrors.Errorf("get config: %w", err)
	}

	return BaseCommand{
		log: log,
		cnf: cnf,
	}, nil
}

// buildGraph runs the pipeline up to the graph: fetch the raw text, cut
// the payload out, parse the descriptors, build and resolve.
func (b *BaseCommand) buildGraph(ctx context.Context, src source.Source) (*graph.Graph, error) {
	text, err := src.Fetch(ctx)
	if err != nil {
		return nil, xerrors.Errorf("fetch schema description: %w", err)
	}

	payload, err := schema.ExtractPayload(text)
	if err != nil {
		return nil, err
	}

	doc, err := schema.Parse([]byte(payload))
	if err != nil {
		var pErr *schema.ParseError
		if errors.As(err, &pErr) {
			b.log.Error(pErr.Pretty())
		}
		return nil, xerrors.Errorf("parse schema description: %w", err)
	}
	b.log.Info("schema description parsed", zap.Int("tables", len(doc)))

	g, err := graph.NewBuilder(b.log).Build(doc)
	if err != nil {
		return nil, xerrors.Errorf("build graph: %w", err)
	}
	b.log.Debug("graph ready", zap.String("fingerprint", fmt.Sprintf("%016x", g.Fingerprint())))

	return g, nil
}
