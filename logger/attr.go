package logger

import (
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
)

// TruncSourceAttr shortens the source file of a record to its parent directory and file name, e.g.:
//
//	/home/dev/app/postgres/serializer.go => postgres/serializer.go
func TruncSourceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}

	dir, file := filepath.Split(src.File)
	src.File = filepath.Join(filepath.Base(dir), file)

	return slog.Any(slog.SourceKey, src)
}

// ColorizeLevel colors the level of a record by its severity.
func ColorizeLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var colorize func(string, ...any) string
	switch {
	case lvl >= slog.LevelError:
		colorize = color.RedString
	case lvl >= slog.LevelWarn:
		colorize = color.YellowString
	case lvl >= slog.LevelInfo:
		colorize = color.BlueString
	default:
		colorize = color.WhiteString
	}

	return slog.String(slog.LevelKey, colorize("%s", lvl.String()))
}
