package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/ardnew/runtpl/cli/cmd/interactive"
	"github.com/ardnew/runtpl/data"
	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/tpl"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// Run renders a template with context assembled from arguments, data files
// or interactive input.
type Run struct {
	Template string   `arg:"" help:"Template name or path"                                      name:"template"`
	Args     []string `arg:"" help:"Context arguments: key=value, key@=path or key@-"             name:"args"     optional:""`
	Data     []string `       help:"Context document (JSON, YAML or TOML) loaded before arguments" short:"d"     type:"existingfile"`

	Interactive bool `help:"Fill variables in $EDITOR"        short:"i" xor:"input"`
	Form        bool `help:"Fill variables in a terminal form"           xor:"input"`
	NoCopy      bool `help:"Do not copy the output to the clipboard" short:"n"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	ast, path, err := loadTemplate(ctx, r.Template)
	if err != nil {
		return err
	}

	obj, err := r.context(ctx, ast)

	switch {
	case errors.Is(err, interactive.ErrNoChanges):
		fmt.Fprintln(streams.Err, "No changes detected. Aborting.")

		return nil

	case errors.Is(err, interactive.ErrCanceled):
		fmt.Fprintln(streams.Err, "Input canceled. Aborting.")

		return nil

	case err != nil:
		return err
	}

	out, err := ast.Render(ctx, obj)
	if err != nil {
		return tpl.WrapError(err).With(slog.String("template", path))
	}

	fmt.Fprint(streams.Out, out)

	log.DebugContext(ctx, "template rendered",
		slog.String("template", path),
		slog.Int("bytes", len(out)),
	)

	if r.NoCopy {
		return nil
	}

	err = copyToClipboard(out)
	if err != nil {
		fmt.Fprintf(streams.Err, "\n\nWarning: Could not copy to clipboard: %v\n", err)
	} else {
		fmt.Fprintln(streams.Err, "\n\n(Result copied to clipboard)")
	}

	return nil
}

// context assembles the render context: data files in order, then either
// interactive input or the command-line arguments.
func (r *Run) context(ctx context.Context, ast *tpl.AST) (*tpl.Object, error) {
	obj := tpl.NewObject()

	for _, path := range r.Data {
		doc, err := data.LoadFile(path)
		if err != nil {
			return nil, err
		}

		for key, val := range doc.All() {
			obj.Set(key, val)
		}
	}

	if !r.Interactive && !r.Form {
		err := data.NewLoader(
			data.WithStdin(streamsFrom(ctx).In),
			data.WithLogger(log.Default()),
		).Into(ctx, obj, r.Args...)

		return obj, err
	}

	if len(r.Args) > 0 {
		return nil, ErrInteractiveArgs.With(slog.Any("args", r.Args))
	}

	entered, err := r.prompt(ctx, ast)
	if err != nil {
		return nil, err
	}

	for key, val := range entered.All() {
		obj.Set(key, val)
	}

	return obj, nil
}

func (r *Run) prompt(ctx context.Context, ast *tpl.AST) (*tpl.Object, error) {
	streams := streamsFrom(ctx)
	scaffold := tpl.ExtractVariables(ast)

	if scaffold.Len() == 0 {
		fmt.Fprintln(streams.Err, "No variables found in the template. Nothing to fill.")

		return tpl.NewObject(), nil
	}

	if r.Form {
		return interactive.Form(ctx, scaffold, streams.In, streams.Err, log.Default())
	}

	fmt.Fprintln(streams.Err, "Please fill in the following variables in the editor:")

	for _, key := range scaffold.Keys() {
		fmt.Fprintln(streams.Err, "- "+key)
	}

	editor := interactive.NewEditor(log.Default())
	editor.Stdin, editor.Stdout = streams.In, streams.Err

	obj, err := editor.Edit(ctx, scaffold)

	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return nil, ErrEditor.Wrap(err)
	}

	return obj, err
}
