package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/datascribe/schemaviz/render"
)

// editors fire bursts of events on save, collapse them before re-rendering
const watchDebounce = 200 * time.Millisecond

type watchCommand struct {
	rf renderFlags
	BaseCommand
}

func NewWatchCommand(f flags) *watchCommand {
	return &watchCommand{rf: newRenderFlags(f)}
}

func (p *watchCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Description: "re-render a schema description whenever it changes",
		ArgsUsage:   "FILE",
		Flags:       p.rf.Set(),
		Before:      p.init,
		Action:      p.run,
	}
}

func (p *watchCommand) init(ctx *cli.Context) error {
	base, err := NewBase(ctx, p.rf.flags)
	if err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	return nil
}

func (p *watchCommand) run(ctx *cli.Context) error {
	input := ctx.Args().First()
	if input == "" || input == stdinFileName {
		return cli.Exit("watch needs a file path", 2)
	}

	cnf := p.rf.renderConfig(ctx, p.cnf.Render)
	r, err := render.New(p.log, cnf)
	if err != nil {
		return xerrors.Errorf("create renderer: %w", err)
	}
	defer r.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return xerrors.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory: editors often replace the file on save, which
	// silently drops a watch registered on the file itself
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return xerrors.Errorf("watch %q: %w", input, err)
	}

	p.log.Info("watching", zap.String("input", input))
	p.render(ctx, r, cnf, input)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Context.Done():
			return ctx.Context.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(input) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			p.render(ctx, r, cnf, input)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.Error("watch failed", zap.Error(err))
		}
	}
}

// render logs failures instead of returning them: a half-written input
// must not kill the watch loop.
func (p *watchCommand) render(ctx *cli.Context, r *render.Renderer, cnf render.Config, input string) {
	if err := p.renderInput(ctx.Context, r, cnf, input, p.rf.outputPath.Get(ctx)); err != nil {
		p.log.Error("render failed", zap.Error(err))
	}
}
