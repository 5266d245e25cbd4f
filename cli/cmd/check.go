package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/runtpl/log"
)

// Check parses a template and reports syntax errors without rendering.
type Check struct {
	Templates []string `arg:"" help:"Template names or paths" name:"template"`
	AST       bool     `       help:"Print the parsed syntax tree"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := streamsFrom(ctx).Out

	for _, name := range c.Templates {
		ast, path, err := loadTemplate(ctx, name)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "template checked",
			slog.String("template", path),
			slog.Int("nodes", len(ast.Nodes)),
		)

		if !c.AST {
			fmt.Fprintf(out, "%s: ok\n", path)

			continue
		}

		if len(c.Templates) > 1 {
			fmt.Fprintf(out, "%s:\n", path)
		}

		err = ast.Print(out)
		if err != nil {
			return err
		}
	}

	return nil
}
