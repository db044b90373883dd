package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/httpapi"
	"github.com/ablejobs/matchcore/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		withService(cmd, func(ctx context.Context, svc *service.Service, l *zap.Logger) error {
			config, err := getConfig()
			if err != nil {
				return err
			}

			listen := ":8080"
			if config.HTTP != nil && strings.TrimSpace(config.HTTP.Listen) != "" {
				listen = config.HTTP.Listen
			}

			verbose := !strings.EqualFold(config.Environment, envProduction)
			return serve(ctx, svc, l, listen, verbose)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("http.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(ctx context.Context, svc *service.Service, l *zap.Logger, listen string, verbose bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := httpapi.NewApp(svc, l, httpapi.Options{Verbose: verbose})

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", zap.String("address", listen))
		errCh <- app.Listen(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
