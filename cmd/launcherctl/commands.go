package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/game-updater/internal/models"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the installed version with the published one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			check, err := a.Service.CheckVersion(context.Background())
			if err != nil {
				return err
			}
			if jsonMode {
				return printJSON(check)
			}

			installed := color.RedString("not installed")
			if check.GameExists {
				installed = color.GreenString("installed")
			}
			remoteVersion := check.RemoteVersion
			if remoteVersion == "" {
				remoteVersion = color.YellowString("unavailable")
			}

			fmt.Printf("Game path:       %s (%s)\n", check.GamePath, installed)
			fmt.Printf("Current version: %s\n", check.CurrentVersion)
			fmt.Printf("Remote version:  %s\n", remoteVersion)
			if check.NeedsUpdate {
				fmt.Println(color.YellowString("An update is available. Run 'launcherctl update'."))
			} else {
				fmt.Println(color.GreenString("Up to date."))
			}
			return nil
		},
	}
}

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Start the installed game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Service.Launch(context.Background())
			if err != nil {
				return err
			}
			if jsonMode {
				return printJSON(result)
			}
			fmt.Printf("%s started %s (pid %d)\n", color.GreenString("✓"), result.LauncherPath, result.PID)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent clone and update runs",
		Long: `List recent clone and update runs, newest first.

History is only kept across runs when DB_CONNECTION_STRING points at Postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Service.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonMode {
				return printJSON(records)
			}
			if len(records) == 0 {
				fmt.Println("No sync history.")
				return nil
			}

			for _, r := range records {
				status := color.YellowString(string(r.Status))
				switch r.Status {
				case models.SyncStatusSucceeded:
					status = color.GreenString(string(r.Status))
				case models.SyncStatusFailed:
					status = color.RedString(string(r.Status))
				}
				fmt.Printf("%s  %-6s  %-9s  %s -> %s  %s\n",
					r.StartedAt.Local().Format(time.DateTime), r.Operation, status,
					r.FromVersion, r.ToVersion, time.Duration(r.DurationMs)*time.Millisecond)
				if r.Error != "" {
					fmt.Printf("    %s\n", color.RedString(r.Error))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of records to show")
	return cmd
}

func newSetPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-path <dir>",
		Short: "Change where the game is installed",
		Long: `Change the install directory recorded in the install file.
Existing files are not moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			gamePath, err := a.Service.SetGamePath(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonMode {
				return printJSON(map[string]string{"gamePath": gamePath})
			}
			fmt.Printf("%s game path set to %s\n", color.GreenString("✓"), gamePath)
			return nil
		},
	}
}
