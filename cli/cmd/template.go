package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/runtpl/cli/cmd/interactive"
	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/pkg"
)

// Template groups the template management subcommands.
type Template struct {
	List   TemplateList   `cmd:"" help:"List stored templates"                    aliases:"ls"`
	New    TemplateNew    `cmd:"" help:"Create a template and open it in $EDITOR"`
	Edit   TemplateEdit   `cmd:"" help:"Open a stored template in $EDITOR"`
	Remove TemplateRemove `cmd:"" help:"Delete stored templates"                  aliases:"rm"`
}

// TemplateList lists the templates of the search path and the global
// directory.
type TemplateList struct {
	Pattern string `arg:"" help:"Fuzzy filter on template names" optional:""`
}

// Run executes the template list command.
func (l *TemplateList) Run(ctx context.Context) error {
	s := storeFrom(ctx)
	out := streamsFrom(ctx).Out

	entries, err := s.List(ctx, l.Pattern)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Available templates in %s:\n", s.Dir())

	if len(entries) == 0 {
		fmt.Fprintf(out,
			"  (No templates found. Use '%s template new <name>' to create one.)\n",
			pkg.Name)

		return nil
	}

	for _, e := range entries {
		if dir := filepath.Dir(e.Path); dir != s.Dir() {
			fmt.Fprintf(out, "- %s (%s)\n", e.Name, dir)
		} else {
			fmt.Fprintf(out, "- %s\n", e.Name)
		}
	}

	return nil
}

// TemplateNew creates a template in the global directory.
type TemplateNew struct {
	Name string `arg:"" help:"Template name"`
}

// Run executes the template new command.
func (n *TemplateNew) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := storeFrom(ctx)
	streams := streamsFrom(ctx)

	path, err := s.Create(n.Name, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(streams.Err, "Opening editor for new template: %s\n", path)

	err = editFile(ctx, path)
	if err != nil {
		_, _ = s.RemoveIfEmpty(n.Name)

		return err
	}

	removed, err := s.RemoveIfEmpty(n.Name)
	if err != nil {
		return err
	}

	if removed {
		fmt.Fprintln(streams.Err, "Empty template discarded. Creation cancelled.")
	} else {
		fmt.Fprintf(streams.Err, "Template '%s' created successfully.\n", n.Name)
	}

	return nil
}

// TemplateEdit opens a template of the global directory in the editor.
type TemplateEdit struct {
	Name string `arg:"" help:"Template name"`
}

// Run executes the template edit command.
func (e *TemplateEdit) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	path, err := storeFrom(ctx).Existing(e.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(streams.Err, "Opening editor for template: %s\n", path)

	err = editFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(streams.Err, "Template '%s' saved.\n", e.Name)

	return nil
}

// TemplateRemove deletes templates from the global directory after
// confirmation.
type TemplateRemove struct {
	Names []string `arg:"" help:"Template names" name:"name"`
	Yes   bool     `       help:"Do not ask for confirmation" short:"y"`
}

// Run executes the template remove command.
func (r *TemplateRemove) Run(ctx context.Context) error {
	s := storeFrom(ctx)
	streams := streamsFrom(ctx)
	answers := bufio.NewScanner(streams.In)

	var errs []error

	for _, name := range r.Names {
		path, err := s.Existing(name)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if !r.Yes {
			fmt.Fprintf(streams.Err,
				"Are you sure you want to delete the template '%s' from %s? [y/N]: ",
				name, path)

			if !answers.Scan() || !strings.EqualFold(strings.TrimSpace(answers.Text()), "y") {
				fmt.Fprintln(streams.Err, "Removal cancelled.")

				continue
			}
		}

		err = s.Remove(name)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		log.DebugContext(ctx, "template removed", slog.String("path", path))
		fmt.Fprintf(streams.Err, "Template '%s' removed successfully.\n", name)
	}

	return errors.Join(errs...)
}

func editFile(ctx context.Context, path string) error {
	streams := streamsFrom(ctx)

	editor := interactive.NewEditor(log.Default())
	editor.Stdin, editor.Stdout = streams.In, streams.Err

	err := editor.EditFile(ctx, path)
	if err != nil {
		return ErrEditor.With(slog.String("path", path)).Wrap(err)
	}

	return nil
}
