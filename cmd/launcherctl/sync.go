package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/game-updater/internal/launcher"
	"github.com/Kamar-Folarin/game-updater/internal/models"
)

const pollInterval = 250 * time.Millisecond

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone",
		Short: "Install the game",
		Long: `Clone the game repository into the install directory and record the
published version.

Examples:
  launcherctl clone
  GIT_TRANSPORT=gogit launcherctl clone`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer("clone", func(ctx context.Context, svc *launcher.Service) (*models.SyncOutcome, error) {
				return svc.Clone(ctx)
			})
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update the installed game",
		Long: `Check the published version and pull the latest game files when it
differs from the installed one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer("update", func(ctx context.Context, svc *launcher.Service) (*models.SyncOutcome, error) {
				return svc.Update(ctx)
			})
		},
	}
}

type transferFunc func(ctx context.Context, svc *launcher.Service) (*models.SyncOutcome, error)

// runTransfer runs a blocking transfer and redraws its progress from a second
// goroutine until it returns.
func runTransfer(action string, transfer transferFunc) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan struct{})
	finished := make(chan struct{})
	if !jsonMode {
		go func() {
			defer close(finished)
			ticker := time.NewTicker(pollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					fmt.Fprintf(os.Stderr, "\r%s", renderProgress(a.Service.Progress()))
				}
			}
		}()
	} else {
		close(finished)
	}

	outcome, err := transfer(ctx, a.Service)
	close(done)
	<-finished

	final := a.Service.Progress()
	if !jsonMode && final.OperationID != "" {
		fmt.Fprintf(os.Stderr, "\r%s\n", renderProgress(final))
	}
	if err != nil {
		return err
	}

	if jsonMode {
		return printJSON(outcome)
	}
	if outcome.UpToDate {
		fmt.Printf("%s %s (version %s)\n", color.GreenString("✓"), outcome.Message, outcome.Version)
		return nil
	}
	fmt.Printf("%s %s: %s, version %s\n", color.GreenString("✓"), action, outcome.Message, color.CyanString(outcome.Version))
	fmt.Printf("  stage %s, %d objects\n", stageColor(final.Stage), final.TotalObjects)
	return nil
}
