// Package commands implements the CLI commands for sitepress.
package commands

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.trai.ch/sitepress/internal/app"
	"go.trai.ch/sitepress/internal/build"
)

// DefaultConfigFile is the configuration file read from the project root.
const DefaultConfigFile = "sitepress.yaml"

// CLI represents the command line interface for sitepress.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	opts    app.Options
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) error
	Start(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
	Images(ctx context.Context, opts app.Options, job app.ImageJob, exclude []string) error
	Deploy(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "sitepress",
		Short:         "Build, serve and publish a static site",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} {{.Version}} (commit %s, built %s, %s/%s)\n",
		build.Commit,
		build.Date,
		runtime.GOOS,
		runtime.GOARCH,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.opts.ConfigFile, "config", "c", DefaultConfigFile, "Configuration file, relative to the project root")
	flags.StringVar(&c.opts.Root, "root", ".", "Project root directory")
	flags.BoolVar(&c.opts.JSON, "json", false, "Write logs as JSON")

	rootCmd.AddCommand(c.newStartCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newImageCmd(app.JobWebP, "Write a WebP copy next to every source image"))
	rootCmd.AddCommand(c.newImageCmd(app.JobAVIF, "Write an AVIF copy next to every source image"))
	rootCmd.AddCommand(c.newImageminCmd())
	rootCmd.AddCommand(c.newDeployCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Legacy "--name" image
// exclusions are rewritten to positional arguments.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(normalizeArgs(args))
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
