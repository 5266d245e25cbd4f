package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/runtpl/cli/cmd"
	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/pkg"
	"github.com/ardnew/runtpl/store"
)

// configName is the base name of the YAML configuration file.
const configName = "config.yaml"

// CLI is the top-level command-line interface for runtpl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	TemplatePath []string `help:"Directories searched for templates before ${templates}" name:"template-path" short:"P" type:"path"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init     cmd.Init     `cmd:"" help:"Initialize configuration file"`
	Vars     cmd.Vars     `cmd:"" help:"Print the variables a template expects"`
	Check    cmd.Check    `cmd:"" help:"Parse templates and report syntax errors"`
	Template cmd.Template `cmd:"" help:"Manage stored templates"                   aliases:"tpl"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Render a template"`
}

// Run executes the runtpl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) (err error) {
	var cli CLI

	err = pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(configName)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
		"templates":          store.DefaultDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	// Pre-scan for logger flags so that errors raised while parsing are
	// logged with the requested configuration.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups(cli.Log.group(), cli.Pprof.group())),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON,
			strings.TrimSuffix(configFilePath, ".yaml")+".json"),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including those
	// read from configuration files.
	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStore(ctx, store.New(
		store.WithSearchPath(cli.TemplatePath...),
		store.WithLogger(log.Default()),
	))

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run(&cli)
}

// groups drops the groups of option sets that are compiled out.
func groups(group ...kong.Group) []kong.Group {
	return slices.DeleteFunc(group, func(g kong.Group) bool { return g.Key == "" })
}
