package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/config"
	"github.com/dmitrijs2005/filevault/internal/client/repositories/session"
	"github.com/dmitrijs2005/filevault/internal/client/services"
)

type App struct {
	config *config.Config
	auth   services.AuthService
	files  services.FileService
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewFileVaultClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}

	return &App{
		config: c,
		auth:   services.NewAuthService(apiClient, session.NewSQLiteRepository(db)),
		files:  services.NewFileService(apiClient, httpClient, c.DownloadDir),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.auth.Close(ctx)

	printlnFn("Welcome to FileVault CLI (type 'help' for commands)")

	email, err := a.auth.Restore(ctx)
	if err != nil {
		a.report(err)
	}
	if email != "" {
		a.email = email
		printlnFn("Resumed session for", email)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) status() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.email)
}

// callCtx bounds a single server round trip.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) report(err error) {
	printlnFn("Error:", describe(err))
}

func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized (wrong credentials or session expired)"
	case errors.Is(err, client.ErrAccountLocked):
		return client.ErrAccountLocked.Error()
	default:
		return err.Error()
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
