package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AlexandreIorio/dotlogs"
)

// app holds the flags shared by every command
type app struct {
	dir string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dotlogs",
		Short: "Manage a dotlogs log directory",
		Long: `dotlogs reads and edits the configuration document of a log directory
and queries the log files written there. Services watching the directory pick
up changes without a restart.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.dir, "dir", "d", dotlogs.DefaultDirectory, "log directory")

	root.AddCommand(
		newStatusCmd(a),
		newLevelCmd(a),
		newToggleCmd(a, true),
		newToggleCmd(a, false),
		newSetCmd(a),
		newLogsCmd(a),
		newWatchCmd(a),
	)
	return root
}

// open creates a service for one-shot commands. Console output goes to the
// command's stderr so it never mixes with command output.
func (a *app) open(cmd *cobra.Command) (*dotlogs.Service, error) {
	return dotlogs.NewBuilder().
		Directory(a.dir).
		Console(cmd.ErrOrStderr()).
		Watch(false).
		Build()
}

// configPath is the configuration document of the directory
func (a *app) configPath() string {
	return filepath.Join(a.dir, dotlogs.ConfigFileName)
}

// inspect loads the document and opens a reader for commands that only look.
// Nothing is created in the directory; a missing document reads as defaults.
func (a *app) inspect() (*dotlogs.Config, *dotlogs.Reader, error) {
	cfg, err := dotlogs.NewConfigFromFile(a.configPath())
	if err != nil {
		return nil, nil, err
	}
	return cfg, dotlogs.NewReader(nil, a.dir), nil
}
