package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/client/services"
	"github.com/dmitrijs2005/gophvault/internal/client/session"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

type App struct {
	config  *config.Config
	client  client.Client
	session *session.Manager
	auth    services.AuthService
	records services.RecordService
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex
}

// NewApp wires the gRPC client, a session manager backed by process memory
// and the services on top of them. Diagnostics go to stderr at warn level.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	m := session.NewManager(c.InactivityTimeout,
		session.WithStore(session.NewMemoryStore()),
		session.WithLogger(logger),
	)
	apiClient.SetTokenSource(m.Token)

	a := &App{
		config:  c,
		client:  apiClient,
		session: m,
		auth:    services.NewAuthService(apiClient, m, services.WithAuthLogger(logger)),
		records: services.NewRecordService(apiClient, m, logger),
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	m.OnExpire(a.onExpire)
	return a, nil
}

// Run blocks in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	a.println(color.CyanString("gophvault") + " (type 'help' for commands)")
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.auth.Ping(pctx); err != nil {
		a.warn("server %s is not reachable", a.config.ServerEndpointAddr)
	}
	cancel()

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.StateActive
}

func (a *App) touch() {
	a.session.Touch()
}

func (a *App) status() string {
	g, err := a.session.Grant()
	if err != nil {
		return a.session.State().String()
	}
	return g.Email
}

func (a *App) onExpire() {
	a.warn("session expired after inactivity, please log in again")
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) success(format string, args ...any) {
	a.println(color.GreenString("✓") + " " + fmt.Sprintf(format, args...))
}

func (a *App) warn(format string, args ...any) {
	a.println(color.YellowString("!") + " " + fmt.Sprintf(format, args...))
}

func (a *App) fail(err error) {
	a.println(color.RedString("✗") + " " + describe(err))
}

// startSpinner is a test seam; the real spinner writes from its own goroutine.
var startSpinner = func(w io.Writer, message string) (stop func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}
