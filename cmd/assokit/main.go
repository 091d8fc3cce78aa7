// Command assokit runs the association role and permission service.
//
//	assokit migrate
//	assokit bootstrap -association ID -admin-user USER [-admin-member ID] [-catalog FILE] [-roles FILE]
//	assokit completeness -association ID
//	assokit serve
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/assokit/assokit/pkg/config"
	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/requestid"
	"github.com/assokit/assokit/pkg/tenant"
)

var errUsage = errors.New("usage: assokit migrate|bootstrap|completeness|serve [flags]")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, errUsage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[appConfig](config.WithEnvFiles(".env"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := append(logger.FromConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor(), rbac.LoggerExtractor()),
	)
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.ErrorContext(ctx, "Command failed", slog.String("command", os.Args[1]), logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger, cmd string, args []string) error {
	switch cmd {
	case "migrate":
		return runMigrate(ctx, cfg, log)
	case "bootstrap":
		return runBootstrap(ctx, cfg, log, args)
	case "completeness":
		return runCompleteness(ctx, cfg, log, args)
	case "serve":
		return runServe(ctx, cfg, log)
	default:
		return errUsage
	}
}
