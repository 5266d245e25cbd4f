package interactive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/runtpl/data"
	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/tpl"
)

const (
	defaultEditor = "vi"

	commentKey  = "__comment"
	commentText = "Please fill in the values. " +
		"An example structure is provided for lists of objects."

	scaffoldIndent = "  "
)

// Editor runs the user's editor.
type Editor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Logger log.Logger
}

// NewEditor returns an Editor attached to the standard streams.
func NewEditor(logger log.Logger) Editor {
	return Editor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Logger: logger,
	}
}

// Edit opens scaffold in the editor and returns the object the user saved.
// It returns [ErrNoChanges] if the file was saved unmodified.
func (e Editor) Edit(ctx context.Context, scaffold *tpl.Object) (*tpl.Object, error) {
	initial, err := Scaffold(scaffold)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(os.TempDir(), "runtpl-vars-*.json")
	if err != nil {
		return nil, err
	}

	path := f.Name()

	defer os.Remove(path)

	err = f.Chmod(0o600)
	if err == nil {
		_, err = f.WriteString(initial)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return nil, err
	}

	err = e.EditFile(ctx, path)
	if err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := data.Normalize(edited)

	e.Logger.TraceContext(ctx, "scaffold edited",
		slog.String("path", path),
		slog.Int("content_length", len(content)),
		slog.Bool("changed", content != initial),
	)

	if content == initial {
		return nil, ErrNoChanges
	}

	obj, err := data.DecodeObject(path, content)
	if err != nil {
		return nil, err
	}

	obj.Delete(commentKey)

	return obj, nil
}

// EditFile opens path in the editor and waits for it to exit.
func (e Editor) EditFile(ctx context.Context, path string) error {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	// $EDITOR may carry arguments, such as "code --wait".
	argv := strings.Fields(getenv("EDITOR"))
	if len(argv) == 0 {
		argv = []string{defaultEditor}
	}

	e.Logger.TraceContext(ctx, "editor start",
		slog.String("editor", argv[0]),
		slog.String("path", path),
	)

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	return cmd.Run()
}

// Scaffold formats scaffold as the indented JSON document shown in the
// editor, led by an explanatory comment key.
func Scaffold(scaffold *tpl.Object) (string, error) {
	doc := tpl.NewObject().Set(commentKey, tpl.String(commentText))

	for key, val := range scaffold.All() {
		doc.Set(key, val)
	}

	compact, err := doc.MarshalJSON()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = json.Indent(&buf, compact, "", scaffoldIndent)
	if err != nil {
		return "", err
	}

	buf.WriteByte('\n')

	return buf.String(), nil
}
