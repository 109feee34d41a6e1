package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dropfour/connect4/internal/config"
)

// Version is overridden at build time with -ldflags.
var Version = "v0.1.0"

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "connect4",
		Short: "Connect Four rules engine with terminal and web front ends",
		Long: heredoc.Doc(`connect4 runs two-player Connect Four games.

			Use "connect4 play" for a hot-seat game in this terminal, or
			"connect4 serve" to host games over HTTP and WebSocket for a
			browser front end.

			Settings are read from the environment, a .env file in the
			working directory, and $XDG_CONFIG_HOME/connect4/config.env.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()

			level, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
			if err != nil {
				logrus.Warnf("Unknown LOG_LEVEL, keeping %s", logrus.GetLevel())
			} else {
				logrus.SetLevel(level)
			}

			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	root.Version = Version
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(Serve())
	root.AddCommand(Play())

	return root
}
