package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Build the site, serve it with live reload and rebuild on changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Start(cmd.Context(), c.opts)
		},
	}
}

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the site into the destination tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), c.opts)
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the destination tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), c.opts)
		},
	}
}

func (c *CLI) newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Publish the destination tree to the deploy branch",
		Long: "Publish the destination tree to the deploy branch.\n\n" +
			"A token in SITEPRESS_GIT_TOKEN or GITHUB_TOKEN is used for HTTPS remotes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Deploy(cmd.Context(), c.opts)
		},
	}
}
