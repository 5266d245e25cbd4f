package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/pkg"
	"github.com/ardnew/runtpl/tpl"
)

const (
	// Ext is the file extension of stored templates.
	Ext = ".tpl"

	// EnvPath names the environment variable holding extra template
	// directories, separated by [os.PathListSeparator].
	EnvPath = "RUNTPL_PATH"

	dirName = "templates"

	maxSuggestions = 3
)

var (
	defaultDirMode  os.FileMode = 0o700
	defaultFileMode os.FileMode = 0o600
)

// Store locates, lists and modifies templates.
type Store struct {
	dir    string
	extra  []string
	getenv func(string) string
	logger log.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithDir sets the global template directory.
func WithDir(dir string) Option {
	return func(s *Store) { s.dir = dir }
}

// WithSearchPath adds directories searched before those of [EnvPath].
func WithSearchPath(dirs ...string) Option {
	return func(s *Store) { s.extra = append(s.extra, dirs...) }
}

// WithGetenv replaces [os.Getenv] for reading [EnvPath].
func WithGetenv(getenv func(string) string) Option {
	return func(s *Store) { s.getenv = getenv }
}

// WithLogger sets the logger used to trace resolution.
func WithLogger(logger log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns a Store rooted at [DefaultDir] unless configured otherwise.
func New(opts ...Option) *Store {
	s := &Store{getenv: os.Getenv}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.dir == "" {
		s.dir = DefaultDir()
	}

	return s
}

// DefaultDir returns the global template directory.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err != nil {
			dir = "."
		}

		dir = filepath.Join(dir, ".config")
	}

	return filepath.Join(dir, pkg.Name, dirName)
}

// Dir returns the global template directory.
func (s *Store) Dir() string { return s.dir }

// SearchPath returns the existing directories searched before the global
// directory, in order and without duplicates.
func (s *Store) SearchPath() []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(s.getenv(EnvPath)),
		mung.WithDelim(sep),
		mung.WithPrefixItems(s.extra...),
		mung.WithFilter(notBlank),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(joined) {
		if dir != "" && isDir(dir) && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// dirs returns every directory holding templates, global directory last.
func (s *Store) dirs() []string {
	dirs := s.SearchPath()
	if !slices.Contains(dirs, s.dir) {
		dirs = append(dirs, s.dir)
	}

	return dirs
}

// Resolve returns the path of the template identified by name.
func (s *Store) Resolve(ctx context.Context, name string) (string, error) {
	if isFile(name) {
		s.logger.TraceContext(ctx, "template resolved",
			slog.String("name", name), slog.String("source", "local"))

		return name, nil
	}

	if validName(name) {
		for _, dir := range s.dirs() {
			path := filepath.Join(dir, withExt(name))
			if isFile(path) {
				s.logger.TraceContext(ctx, "template resolved",
					slog.String("name", name), slog.String("path", path))

				return path, nil
			}
		}
	}

	return "", s.notFound(ctx, name)
}

func (s *Store) notFound(ctx context.Context, name string) error {
	err := ErrTemplateNotFound.
		Wrapf(name).
		With(slog.String("name", name), slog.String("dir", s.dir))

	entries, listErr := s.List(ctx, "")
	if listErr != nil {
		return err
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	var suggest []string

	for _, m := range fuzzy.Find(strings.TrimSuffix(filepath.Base(name), Ext), names) {
		if len(suggest) == maxSuggestions {
			break
		}

		suggest = append(suggest, m.Str)
	}

	if len(suggest) > 0 {
		reason := name + " (did you mean " + strings.Join(suggest, ", ") + "?)"

		err = ErrTemplateNotFound.
			Wrapf(reason).
			With(
				slog.String("name", name),
				slog.String("dir", s.dir),
				slog.Any("suggestions", suggest),
			)
	}

	return err
}

// Entry describes a stored template.
type Entry struct {
	Name string
	Path string
}

// List returns the templates of every directory, sorted by name. A name
// found in several directories is listed once, for the directory that
// [Store.Resolve] would select. A non-empty pattern keeps only names that
// fuzzy-match it, best match first.
func (s *Store) List(ctx context.Context, pattern string) ([]Entry, error) {
	var entries []Entry

	for _, dir := range s.dirs() {
		items, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, tpl.ErrFileRead.Wrap(err).With(slog.String("path", dir))
		}

		for _, item := range items {
			name, ok := strings.CutSuffix(item.Name(), Ext)
			if !ok || name == "" || item.IsDir() {
				continue
			}

			if slices.ContainsFunc(entries, func(e Entry) bool { return e.Name == name }) {
				continue
			}

			entries = append(entries, Entry{Name: name, Path: filepath.Join(dir, item.Name())})
		}
	}

	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })

	s.logger.TraceContext(ctx, "templates listed",
		slog.Int("count", len(entries)), slog.String("pattern", pattern))

	if pattern == "" {
		return entries, nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	matches := fuzzy.Find(pattern, names)
	filtered := make([]Entry, len(matches))

	for i, m := range matches {
		filtered[i] = entries[m.Index]
	}

	return filtered, nil
}

// Path returns the location of name in the global directory, whether or not
// it exists.
func (s *Store) Path(name string) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName.Wrapf(name).With(slog.String("name", name))
	}

	return filepath.Join(s.dir, withExt(name)), nil
}

// Existing returns the path of name in the global directory, failing if it
// does not exist.
func (s *Store) Existing(name string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	if !isFile(path) {
		return "", ErrTemplateNotFound.
			Wrapf(name).
			With(slog.String("name", name), slog.String("path", path))
	}

	return path, nil
}

// Create writes a new template to the global directory and returns its
// path. It fails if the template exists.
func (s *Store) Create(name string, content []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(s.dir, defaultDirMode)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFileMode)
	if errors.Is(err, fs.ErrExist) {
		return "", ErrTemplateExists.Wrapf(name).With(slog.String("path", path))
	}

	if err != nil {
		return "", err
	}

	_, err = f.Write(content)

	return path, errors.Join(err, f.Close())
}

// Remove deletes a template from the global directory.
func (s *Store) Remove(name string) error {
	path, err := s.Existing(name)
	if err != nil {
		return err
	}

	return os.Remove(path)
}

// RemoveIfEmpty deletes a template from the global directory if it holds
// nothing but whitespace, and reports whether it did.
func (s *Store) RemoveIfEmpty(name string) (bool, error) {
	path, err := s.Existing(name)
	if err != nil {
		return false, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	if strings.TrimSpace(string(content)) != "" {
		return false, nil
	}

	return true, os.Remove(path)
}

func withExt(name string) string {
	if strings.HasSuffix(name, Ext) {
		return name
	}

	return name + Ext
}

// validName reports whether name is a plain file name.
func validName(name string) bool {
	switch name {
	case "", ".", "..", Ext:
		return false
	}

	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func notBlank(s string) bool { return strings.TrimSpace(s) != "" }

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
