package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/verbose"
)

var (
	playModelFlag      string
	playListModelsFlag bool
)

// playExecFunc launches the game. Tests replace it with a fake.
var playExecFunc cmdexec.RunFunc = cmdexec.Run

// modelTier is a group of models that fit the same class of GPU.
type modelTier struct {
	Label  string
	Models []string
}

// recommendedModels lists HuggingFace model IDs by the VRAM they need.
var recommendedModels = []modelTier{
	{Label: "SMALL (6-8GB VRAM)", Models: []string{
		"meta-llama/Llama-3.2-3B-Instruct",
		"microsoft/Phi-3-mini-4k-instruct",
	}},
	{Label: "MEDIUM (14-16GB VRAM)", Models: []string{
		"meta-llama/Llama-3.1-8B-Instruct",
		"mistralai/Mistral-7B-Instruct-v0.3",
	}},
	{Label: "LARGE (140GB+ VRAM, multi-GPU)", Models: []string{
		"meta-llama/Llama-3.1-70B-Instruct",
		"Qwen/Qwen2.5-72B-Instruct",
	}},
}

var playCmd = &cobra.Command{
	Use:   "play [-- game-args...]",
	Short: "Launch the game with a local model",
	Long: `Launch the interactive game attached to this terminal.

The model defaults to game.default_model from the configuration. Arguments
after -- are passed to the game unchanged. acerun exits with the game's
exit code.`,
	Example: `  acerun play
  acerun play --model meta-llama/Llama-3.1-8B-Instruct
  acerun play --list-models`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playModelFlag, "model", "m", "", "HuggingFace model ID (default: game.default_model)")
	playCmd.Flags().BoolVar(&playListModelsFlag, "list-models", false, "List recommended models by GPU memory")
}

// runPlay launches the game, or lists models with --list-models.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Extra arguments forwarded to the game
//
// Returns:
//   - error: Config errors, or an ExitError carrying the game's exit code
func runPlay(cmd *cobra.Command, args []string) error {
	if playListModelsFlag {
		printRecommendedModels()
		return nil
	}

	cfg, err := loadAndValidateConfig()
	if err != nil {
		return err
	}

	model := playModelFlag
	if model == "" {
		model = cfg.Game.DefaultModel
	}

	gameArgs := append([]string(nil), cfg.Game.Args...)
	gameArgs = append(gameArgs, "--model", model)
	gameArgs = append(gameArgs, args...)

	spec := cmdexec.Spec{
		Command:     cfg.Game.Command,
		Args:        gameArgs,
		Dir:         cfg.WorkingDir,
		Stdin:       os.Stdin,
		Interactive: true,
	}
	verbose.Infof("Launching game with model %s", model)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	warnMissingCommands(ctx, spec)
	outcome := playExecFunc(ctx, spec, os.Stdout, os.Stderr)
	if outcome.Success() {
		return nil
	}
	if outcome.Err != nil {
		return errors.NewExitError(outcome.ExitCode, fmt.Errorf("game: %w", outcome.Err))
	}
	return errors.NewSilentExit(outcome.ExitCode)
}

// printRecommendedModels prints the model tiers and a usage line.
func printRecommendedModels() {
	fmt.Println("\nRecommended Models:")
	for _, tier := range recommendedModels {
		fmt.Printf("\n%s:\n", tier.Label)
		for _, m := range tier.Models {
			fmt.Printf("  - %s\n", m)
		}
	}
	fmt.Printf("\nUsage: acerun play --model %s\n\n", recommendedModels[1].Models[0])
}
