package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLevelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "level <level>",
		Short: "Set the minimum level",
		Long: `Set the minimum level written by every service using the directory.
Accepted: Verbose (Trace), Debug, Information, Warning, Error, Fatal, in any
casing, or their three letter codes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.SetLevel(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Level set to %s\n", args[0])
			return nil
		},
	}
}

func newToggleCmd(a *app, enable bool) *cobra.Command {
	use, short := "disable", "Turn console and/or file output off"
	if enable {
		use, short = "enable", "Turn console and/or file output on"
	}

	return &cobra.Command{
		Use:       use + " [console|file]",
		Short:     short,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"console", "file"},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			target := ""
			if len(args) == 1 {
				target = args[0]
			}

			switch {
			case target == "console" && enable:
				err = svc.EnableConsole()
			case target == "console":
				err = svc.DisableConsole()
			case target == "file" && enable:
				err = svc.EnableFile()
			case target == "file":
				err = svc.DisableFile()
			case enable:
				err = svc.Enable()
			default:
				err = svc.Disable()
			}
			if err != nil {
				return err
			}

			cfg := svc.Configuration()
			fmt.Fprintf(cmd.OutOrStdout(), "Console %s, file %s\n", onOff(cfg.LogToConsole), onOff(cfg.LogToFile))
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Change configuration keys",
		Long: `Change one or more keys of the configuration document. Keys are
log_to_console, log_to_file, log_level, retention_count, rotation_interval,
log_file_name and output_template. Nothing is written if any pair is invalid.`,
		Example: `  dotlogs set log_level=Debug rotation_interval=hour`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.ApplyOverride(args...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d key(s)\n", len(args))
			return nil
		},
	}
}
