// Package server wires the gophauth server together: storage, keys, the
// registration and login flows, and the gRPC endpoint, with graceful
// shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	grpcServer  *gs.GRPCServer
}

// NewApp opens storage, runs migrations, stretches the configured keys and
// builds the gRPC server. Nothing is listening yet.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	rm, err := repomanager.New(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	keys, err := auth.NewKeys(c.UserSecretKey, c.AdminSecretKey, c.ServerEncryptionKey)
	if err != nil {
		rm.Close()
		return nil, fmt.Errorf("key setup error: %w", err)
	}

	validator, err := validation.New()
	if err != nil {
		rm.Close()
		return nil, fmt.Errorf("validator init error: %w", err)
	}

	deriver := auth.NewSecretDeriver(keys.User, keys.Admin, c.AdminEmail)
	tokens := auth.NewTokenIssuer(nil)
	verifiers := auth.NewVerifierHasher(c.SaltNumber)
	transport := auth.NewTransportEncryptor(keys.Transport)

	svc, err := services.NewAuthService(rm.Users(), validator, auth.NewBcryptHasher(c.SaltNumber),
		deriver, tokens, verifiers, transport, logger)
	if err != nil {
		rm.Close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	authn := auth.NewAuthenticator(rm.Users(), deriver, verifiers, tokens, transport)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		grpcServer:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, authn),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes storage.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "failed to close storage", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
