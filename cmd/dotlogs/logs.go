package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AlexandreIorio/dotlogs"
)

var levelStyles = map[int64]lipgloss.Style{
	dotlogs.LevelVerbose:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	dotlogs.LevelDebug:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	dotlogs.LevelInformation: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	dotlogs.LevelWarning:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	dotlogs.LevelError:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	dotlogs.LevelFatal:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

var timeStyle = lipgloss.NewStyle().Faint(true)

func newLogsCmd(a *app) *cobra.Command {
	var (
		from  string
		days  int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print log entries",
		Long: `Print the entries of every log file in the directory, oldest first.

By default the last 24 hours are shown.

Examples:
  # Warnings and above of the last 3 days
  dotlogs logs --days 3 --level warning

  # Everything since a point in time (UTC)
  dotlogs logs --from "2024-01-15 08:00:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := parseMinLevel(level)
			if err != nil {
				return err
			}
			reader := dotlogs.NewReader(nil, a.dir)

			var entries []dotlogs.Entry
			switch {
			case from != "":
				ts, err := parseFrom(from)
				if err != nil {
					return err
				}
				entries, err = reader.Query(ts, minLevel)
				if err != nil {
					return err
				}
			case cmd.Flags().Changed("days"):
				entries, err = reader.QueryDays(days, minLevel)
			default:
				entries, err = reader.Query(time.Now().UTC().Add(-24*time.Hour), minLevel)
			}
			if err != nil {
				return err
			}

			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", `show entries at or after this UTC time ("2006-01-02 15:04:05" or RFC 3339)`)
	cmd.Flags().IntVar(&days, "days", 1, "show entries of the last N days")
	cmd.Flags().StringVar(&level, "level", "", "minimum level")
	cmd.MarkFlagsMutuallyExclusive("from", "days")
	return cmd
}

// parseMinLevel treats an empty level as every level
func parseMinLevel(level string) (int64, error) {
	if strings.TrimSpace(level) == "" {
		return dotlogs.LevelVerbose, nil
	}
	return dotlogs.Level(level)
}

func parseFrom(value string) (time.Time, error) {
	if ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.UTC); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid --from %q", value)
}

func printEntries(w io.Writer, entries []dotlogs.Entry) {
	for _, e := range entries {
		code := dotlogs.LevelCode(e.Level)
		if style, ok := levelStyles[e.Level]; ok {
			code = style.Render(code)
		}
		fields := e.Contents
		var prefix string
		if len(fields) > 1 {
			prefix = "[" + strings.Join(fields[:len(fields)-1], "] [") + "] "
		}
		fmt.Fprintf(w, "%s %s %s%s\n",
			timeStyle.Render(e.Timestamp.Format("2006-01-02 15:04:05")), code, prefix, e.Message())
	}
}
