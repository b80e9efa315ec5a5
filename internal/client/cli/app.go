package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/config"
	"github.com/dmitrijs2005/orderdesk/internal/client/credstore"
	"github.com/dmitrijs2005/orderdesk/internal/client/services"
	"github.com/dmitrijs2005/orderdesk/internal/client/session"
	"github.com/dmitrijs2005/orderdesk/internal/client/tasks"
	"github.com/dmitrijs2005/orderdesk/internal/cryptox"
	"github.com/dmitrijs2005/orderdesk/internal/filex"
	"github.com/dmitrijs2005/orderdesk/internal/logging"
	"github.com/dmitrijs2005/orderdesk/internal/netx"
)

const (
	credentialsFile = "credentials.db"
	deviceKeyFile   = "device.key"
)

type App struct {
	config       *config.Config
	session      *session.Manager
	authService  services.AuthService
	orderService services.OrderService
	store        io.Closer
	log          logging.Logger
	reader       *bufio.Reader
	out          io.Writer
}

// NewApp opens the credential store under the configured data directory,
// builds the API client and session, and wires the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	key, err := filex.ReadOrCreateSecret(filepath.Join(dataDir, deviceKeyFile), cryptox.GenerateKey)
	if err != nil {
		return nil, fmt.Errorf("device key: %w", err)
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return nil, fmt.Errorf("device key: %w", err)
	}

	store, err := credstore.Open(ctx, filepath.Join(dataDir, credentialsFile), sealer)
	if err != nil {
		log.Error(ctx, "error initializing credential store", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, netx.NewHTTPClient(nil, c.RequestTimeout))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sess := session.NewManager(store,
		session.WithValidator(api),
		session.WithRevalidation(c.RevalidateOnStart),
		session.WithLogger(log),
	)
	api.SetTokenSource(sess)

	return &App{
		config:       c,
		session:      sess,
		authService:  services.NewAuthService(api, sess, log),
		orderService: services.NewOrderService(api, sess, tasks.NewRunner(), log),
		store:        store,
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

// Run restores the previous session in the background and blocks in the
// REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	go a.session.Initialize(ctx)
	a.Root(ctx)
}

func (a *App) close(ctx context.Context) {
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "closing api client", "error", err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn(ctx, "closing credential store", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
