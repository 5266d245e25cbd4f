package tpl

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Files implements the files built-in.
//
//	files(source, recursive=true, exclude_names=[], exclude_paths=[])
//
// source is a comma-separated string or a list of paths, each a file or a
// directory relative to the working directory. Directories are walked in
// lexical order, descending into subdirectories only if recursive is true.
// A file is skipped if its base name equals one of exclude_names or its path
// contains one of exclude_paths.
//
// The result is a list of objects {name, path, absolute_path, content}, one
// per regular file (including symbolic links to regular files), in traversal
// order. A missing source or an unreadable or non-UTF-8 file fails with
// [ErrFileRead].
func Files(ctx context.Context, args *Object) (Value, error) {
	opts, err := readFilesArgs(args)
	if err != nil {
		return Value{}, err
	}

	var found []string

	for _, source := range opts.sources {
		paths, err := opts.walk(ctx, source)
		if err != nil {
			return Value{}, err
		}

		found = append(found, paths...)
	}

	items := make([]Value, len(found))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range found {
		g.Go(func() error {
			if err := context.Cause(gctx); err != nil {
				return err
			}

			obj, err := readFile(path)
			if err != nil {
				return err
			}

			items[i] = ObjectValue(obj)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Value{}, err
	}

	return List(items...), nil
}

type filesOptions struct {
	sources      []string
	recursive    bool
	excludeNames []string
	excludePaths []string
}

func readFilesArgs(args *Object) (filesOptions, error) {
	var opts filesOptions

	a := readArgs("files", args)

	source, ok := a.get("source")
	if !ok {
		return opts, ErrArgument.Wrapf("files: missing required argument source")
	}

	switch source.Kind() {
	case KindString:
		s, _ := source.AsString()
		for p := range strings.SplitSeq(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				opts.sources = append(opts.sources, p)
			}
		}

	case KindList:
		list, err := a.strings("source")
		if err != nil {
			return opts, err
		}

		opts.sources = list

	default:
		return opts, a.typeError("source", "a string or a list of strings", source)
	}

	if len(opts.sources) == 0 {
		return opts, ErrArgument.Wrapf("files: source names no paths")
	}

	var err error

	if opts.recursive, err = a.bool("recursive", true); err != nil {
		return opts, err
	}

	if opts.excludeNames, err = a.strings("exclude_names"); err != nil {
		return opts, err
	}

	if opts.excludePaths, err = a.strings("exclude_paths"); err != nil {
		return opts, err
	}

	return opts, a.unknown()
}

// walk returns the paths of the files selected under source. Paths beneath a
// relative source keep its spelling, so "./d" yields "./d/a.txt".
func (o filesOptions) walk(ctx context.Context, source string) ([]string, error) {
	root := displayPath(source)
	spell := spelling(source, root)

	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := context.Cause(ctx); err != nil {
			return err
		}

		shown := spell(path)

		if d.IsDir() {
			if path != root && (!o.recursive || o.excludedPath(path, shown)) {
				return filepath.SkipDir
			}

			return nil
		}

		if !isRegularFile(path, d) || o.excluded(path, shown, d.Name()) {
			return nil
		}

		paths = append(paths, shown)

		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}

		return nil, ErrFileRead.Wrap(err).With(slog.String("path", source))
	}

	return paths, nil
}

func (o filesOptions) excluded(path, shown, name string) bool {
	return slices.Contains(o.excludeNames, name) || o.excludedPath(path, shown)
}

// excludedPath matches exclude_paths against the path as shown and, cleaned,
// against the cleaned path.
func (o filesOptions) excludedPath(path, shown string) bool {
	return slices.ContainsFunc(o.excludePaths, func(p string) bool {
		return p != "" &&
			(strings.Contains(shown, p) || strings.Contains(path, filepath.Clean(p)))
	})
}

// spelling returns a func mapping walked paths beneath root back to the
// spelling of a relative source.
func spelling(source, root string) func(string) string {
	prefix := strings.TrimRight(source, string(filepath.Separator))
	if filepath.IsAbs(source) {
		return func(path string) string { return path }
	}

	return func(path string) string {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return prefix
		}

		return prefix + string(filepath.Separator) + rel
	}
}

// isRegularFile reports whether d is a regular file or a symbolic link that
// resolves to one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}

	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// displayPath returns the cleaned source path, relative to the working
// directory when an absolute path lies beneath it. It is the walk root.
func displayPath(source string) string {
	source = filepath.Clean(source)
	if !filepath.IsAbs(source) {
		return source
	}

	wd, err := os.Getwd()
	if err != nil {
		return source
	}

	rel, err := filepath.Rel(wd, source)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return source
	}

	return rel
}

func readFile(path string) (*Object, error) {
	fail := func(err error) error {
		return ErrFileRead.Wrap(err).With(slog.String("path", path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fail(err)
	}

	if !utf8.Valid(content) {
		return nil, fail(errors.New("content is not valid UTF-8"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fail(err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	return NewObject().
		Set("name", String(filepath.Base(path))).
		Set("path", String(path)).
		Set("absolute_path", String(abs)).
		Set("content", String(string(content))), nil
}
