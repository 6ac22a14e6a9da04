package source

import (
	"context"
	"io"
	"os"

	"golang.org/x/xerrors"
)

const stdinFileName = "-"

// Source produces one schema-description text per call. The text is the
// raw form: preamble, payload and trailer, exactly as the producing agent
// emitted it.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// File reads the text from a file path, "-" meaning stdin.
type File struct {
	Path string
}

func (f File) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Path == stdinFileName {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", xerrors.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", xerrors.Errorf("read schema description: %w", err)
	}
	return string(data), nil
}

// Reader drains an io.Reader once.
type Reader struct {
	R io.Reader
}

func (r Reader) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r.R)
	if err != nil {
		return "", xerrors.Errorf("read schema description: %w", err)
	}
	return string(data), nil
}

// Static returns a fixed text, mostly for tests.
type Static string

func (s Static) Fetch(context.Context) (string, error) { return string(s), nil }
