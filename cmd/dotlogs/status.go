package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexandreIorio/dotlogs"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configuration in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reader, err := a.inspect()
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Directory:  %s\n", a.dir)
			fmt.Fprintf(out, "Document:   %s\n", a.configPath())
			fmt.Fprintf(out, "Level:      %s (%s)\n", cfg.LogLevel, dotlogs.LevelName(level))
			fmt.Fprintf(out, "Console:    %s\n", onOff(cfg.LogToConsole))
			fmt.Fprintf(out, "File:       %s\n", onOff(cfg.LogToFile))
			fmt.Fprintf(out, "Rotation:   %s, keep %d\n", cfg.RotationInterval, cfg.RetentionCount)
			fmt.Fprintf(out, "File name:  %s\n", cfg.LogFileName)
			fmt.Fprintf(out, "Template:   %s\n", cfg.OutputTemplate)
			current, err := reader.CurrentFile()
			if err != nil {
				return err
			}
			if current != "" {
				fmt.Fprintf(out, "Current:    %s\n", current)
			}
			return nil
		},
	}
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
