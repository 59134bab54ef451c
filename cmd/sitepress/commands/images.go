package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/sitepress/internal/app"
)

func (c *CLI) newImageCmd(job app.ImageJob, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(job) + " [exclude...]",
		Short: short,
		Long: short + ".\n\n" +
			"Arguments name directories directly below the image root that are skipped,\n" +
			"in addition to images.exclude from the configuration. The legacy form\n" +
			"\"" + string(job) + " --bg\" is accepted as well.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Images(cmd.Context(), c.opts, job, args)
		},
	}
}

func (c *CLI) newImageminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   string(app.JobImagemin),
		Short: "Recompress the JPEG and PNG images of the destination tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Images(cmd.Context(), c.opts, app.JobImagemin, nil)
		},
	}
}

// knownFlags are the long flags that stay flags after the image commands.
var knownFlags = map[string]bool{
	"config":  true,
	"root":    true,
	"json":    true,
	"help":    true,
	"version": true,
}

// valueFlags take the following argument as their value.
var valueFlags = map[string]bool{
	"--config": true,
	"-c":       true,
	"--root":   true,
}

// normalizeArgs rewrites "webp --bg --slides" to "webp bg slides".
func normalizeArgs(args []string) []string {
	cmd := commandIndex(args)
	if cmd < 0 || (args[cmd] != string(app.JobWebP) && args[cmd] != string(app.JobAVIF)) {
		return args
	}

	out := make([]string, 0, len(args))
	out = append(out, args[:cmd+1]...)
	for i := cmd + 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if valueFlags[arg] {
			out = append(out, arg)
			if i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			continue
		}
		name, _, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if strings.HasPrefix(arg, "--") && name != "" && !knownFlags[name] {
			out = append(out, name)
			continue
		}
		out = append(out, arg)
	}
	return out
}

// commandIndex returns the position of the subcommand, skipping global flags.
func commandIndex(args []string) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case valueFlags[arg]:
			i++
		case strings.HasPrefix(arg, "-"):
		default:
			return i
		}
	}
	return -1
}
