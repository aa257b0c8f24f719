package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ripple-dev/ripple/pkg/inspect"
	"github.com/ripple-dev/ripple/pkg/middleware"
	"github.com/ripple-dev/ripple/pkg/ripple"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		modelPath string
		traced    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live model inspector",
		Long: `Serve watches a model and exposes it over HTTP:

  GET /model    current snapshot as JSON
  GET /deps     dependency set as JSON
  GET /ws       WebSocket stream of change events
  GET /metrics  Prometheus metrics

The model starts from the JSON file given with --model, or empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := map[string]any{}
			if modelPath != "" {
				data, err := os.ReadFile(modelPath)
				if err != nil {
					return fmt.Errorf("read model: %w", err)
				}
				if err := json.Unmarshal(data, &model); err != nil {
					return fmt.Errorf("parse model: %w", err)
				}
			}

			srv := inspect.New()
			sink := middleware.Metrics(srv.Sink())
			if traced {
				sink = middleware.Traced(sink)
			}

			obj, err := ripple.Watch(model, sink)
			if err != nil {
				return err
			}
			srv.Observe(obj)

			logger := slog.Default().With("component", "serve")
			logger.Info("inspector listening", "addr", addr, "keys", obj.Len())
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a JSON model to load")
	cmd.Flags().BoolVar(&traced, "trace", false, "emit OpenTelemetry spans per notification")
	return cmd
}
