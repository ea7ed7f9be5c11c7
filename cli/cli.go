package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nengo/cli/cmd"
	"github.com/ardnew/nengo/lang"
	"github.com/ardnew/nengo/pkg"
	"github.com/ardnew/nengo/render"
)

// CLI is the top-level command-line interface for nengo.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	TZ     string   `default:"Local" help:"Time zone of date literals and now (IANA name)" name:"tz"`
	Render string   `                help:"Result template (expr-lang)"                                 placeholder:"EXPR"`
	Source []string `                help:"Batch input file(s) or '-' for stdin"          name:"source" short:"s" type:"existingfile"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate an expression"`
	Batch   cmd.Batch   `cmd:""                    help:"Evaluate one expression per input line"`
	Tokens  cmd.Tokens  `cmd:""                    help:"Print the postfix tokens of an expression"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Init    cmd.Init    `cmd:""                    help:"Write configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version"`
}

// Run executes the nengo CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(defaultDirMode); err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(".yaml"),
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are logged
	// the way the user asked, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPaths(".json")...),
		kong.Configuration(loadYAML, configPaths(".yaml")...),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	loc, err := time.LoadLocation(cli.TZ)
	if err != nil {
		return cmd.ErrLocation.With(slog.String("tz", cli.TZ)).Wrap(err)
	}

	tmpl, err := render.Compile(cli.Render)
	if err != nil {
		return cmd.ErrRender.With(slog.String("template", cli.Render)).Wrap(err)
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithOptions(ctx, lang.WithLocation(loc))
	ctx = cmd.WithTemplate(ctx, tmpl)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
