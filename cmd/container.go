package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/container"
)

var containerDryRunFlag bool

// containerExecFunc runs docker. Tests replace it with a fake.
var containerExecFunc cmdexec.RunFunc = cmdexec.Run

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Build or run the game's GPU container image",
	Long: `Build or run the game's container image with docker.

Image name, Dockerfile, GPU selection, and the output directory mounted into
the container come from the container section of the configuration.`,
}

var containerBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the container image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainerClient()
		if err != nil {
			return err
		}
		return c.Build(cmd.Context())
	},
}

var containerRunCmd = &cobra.Command{
	Use:   "run [-- args...]",
	Short: "Run the container image with GPU access",
	Long: `Run the container image interactively with GPU access.

The configured output directory is created and mounted into the container.
Arguments after -- replace the image's default command.`,
	Example: `  acerun container run
  acerun container run -- python3 main_local.py --list-models`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainerClient()
		if err != nil {
			return err
		}
		return c.Run(cmd.Context(), args)
	},
}

func init() {
	containerCmd.PersistentFlags().BoolVar(&containerDryRunFlag, "dry-run", false, "Print the docker command instead of running it")
	containerCmd.AddCommand(containerBuildCmd)
	containerCmd.AddCommand(containerRunCmd)
}

// newContainerClient creates a docker client from the loaded configuration.
func newContainerClient() (*container.Client, error) {
	cfg, err := loadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	if !containerDryRunFlag {
		warnMissingCommands(context.Background(), cmdexec.Spec{Command: container.DockerBinary})
	}
	return container.New(cfg.Container,
		container.WithBaseDir(cfg.WorkingDir),
		container.WithExecutor(containerExecFunc),
		container.WithStreams(os.Stdin, os.Stdout, os.Stderr),
		container.WithDryRun(containerDryRunFlag),
	), nil
}
