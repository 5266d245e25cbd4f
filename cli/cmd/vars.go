package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/runtpl/tpl"
)

// Vars prints the variable scaffold of a template.
type Vars struct {
	Template string `arg:"" help:"Template name or path" name:"template"`
	Format   string `       help:"Output format"          short:"f"       default:"json" enum:"json,yaml"`
}

// Run executes the vars command.
func (v *Vars) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, _, err := loadTemplate(ctx, v.Template)
	if err != nil {
		return err
	}

	out, err := formatScaffold(tpl.ExtractVariables(ast), v.Format)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(streamsFrom(ctx).Out, out)

	return err
}

func formatScaffold(scaffold *tpl.Object, format string) (string, error) {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(scaffold)
		if err != nil {
			return "", ErrYAMLMarshal.Wrap(err)
		}

		return string(out), nil

	default:
		compact, err := scaffold.MarshalJSON()
		if err != nil {
			return "", ErrJSONMarshal.Wrap(err)
		}

		var buf bytes.Buffer

		err = json.Indent(&buf, compact, "", "  ")
		if err != nil {
			return "", ErrJSONMarshal.Wrap(err)
		}

		buf.WriteByte('\n')

		return buf.String(), nil
	}
}
