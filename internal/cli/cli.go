// Package cli defines the bookshelf command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/graph-gophers/graphql-go/trace/opentracing"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/graph-gophers/bookshelf"
	"github.com/graph-gophers/bookshelf/config"
	"github.com/graph-gophers/bookshelf/internal/dataset"
	"github.com/graph-gophers/bookshelf/log"
	"github.com/graph-gophers/bookshelf/metrics"
	"github.com/graph-gophers/bookshelf/server"
	"github.com/graph-gophers/bookshelf/trace"
)

// NewRootCmd returns the bookshelf command tree. Running it without a subcommand serves.
func NewRootCmd() *cobra.Command {
	conf := viper.New()

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "GraphQL API over an in-memory catalogue of authors and books",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), conf)
		},
	}
	if err := config.BindFlags(root.PersistentFlags(), conf); err != nil {
		panic(err)
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), conf)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), bookshelf.Schema)
			return err
		},
	})
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, conf *viper.Viper) error {
	cfg, err := config.Load(conf)
	if err != nil {
		return err
	}

	logger, err := log.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var next tracer.Tracer
	if cfg.Tracing {
		_, closer, err := trace.NewJaeger(cfg.ServiceName, logger.Named("jaeger"))
		if err != nil {
			return err
		}
		defer closer.Close()
		next = opentracing.Tracer{}
		logger.Info("tracing enabled", zap.String("service", cfg.ServiceName))
	}

	ds := dataset.NewSeeded()
	m := metrics.New()
	if err := m.Register(prometheus.DefaultRegisterer, ds); err != nil {
		return err
	}

	s, err := server.New(cfg, server.Deps{
		Dataset:  ds,
		Logger:   logger,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Tracer:   next,
	})
	if err != nil {
		return err
	}
	return s.Start(ctx, nil)
}
