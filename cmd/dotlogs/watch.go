package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexandreIorio/dotlogs"
	"github.com/AlexandreIorio/dotlogs/metrics"
)

func newWatchCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a service in the foreground and report configuration reloads",
		Long: `Run a service on the directory until interrupted. Every reload of the
configuration document is reported, and with --metrics the service counters
are served for Prometheus under /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := dotlogs.NewBuilder().
				Directory(a.dir).
				Console(cmd.ErrOrStderr()).
				Build()
			if err != nil {
				return err
			}
			defer svc.Close()

			out := cmd.OutOrStdout()
			svc.OnConfigurationChanged(func(e dotlogs.ConfigEvent) {
				switch {
				case e.Err != nil:
					fmt.Fprintf(out, "reload rejected: %v\n", e.Err)
				case len(e.Changed) == 0:
					fmt.Fprintln(out, "reload: no change")
				default:
					fmt.Fprintf(out, "reload: %s\n", strings.Join(e.Changed, "; "))
				}
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if listen != "" {
				handler, err := metrics.Handler(svc)
				if err != nil {
					return err
				}
				mux := http.NewServeMux()
				mux.Handle("/metrics", handler)
				server := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						svc.Error("metrics listener failed: "+err.Error(), dotlogs.CallerAt(0))
						stop()
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					_ = server.Shutdown(shutdownCtx)
				}()
			}

			fmt.Fprintf(out, "watching %s (Ctrl+C to stop)\n", svc.ConfigPath())
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}
