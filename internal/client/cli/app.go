package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/credentials"
	"github.com/dmitrijs2005/gophauth/internal/client/forms"
	"github.com/dmitrijs2005/gophauth/internal/client/gate"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// App is the interactive client. It owns the session manager and the page
// the user is currently on.
type App struct {
	db       *sql.DB
	session  *session.Manager
	accounts services.AccountService
	forms    *forms.Validator
	gate     *gate.Gate
	routes   map[string]route
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	status  string
	current string
	intent  *gate.Intent

	unsubscribe func()
}

// NewApp opens the local database and wires storage, the identity client,
// the session manager and the account service together.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	headers := client.NewHeaders()
	api := client.NewHTTPClient(c.APIBaseURL, headers, c.RequestTimeout, log)
	store := credentials.NewStore(metadata.NewSQLiteRepository(db), headers, log)

	a := newApp(c, session.New(store, api, log), services.NewAccountService(api, log), log, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, sess *session.Manager, accounts services.AccountService, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		session:  sess,
		accounts: accounts,
		forms:    forms.NewValidator(),
		gate:     gate.New(c.LoginPath, c.LandingPath),
		routes:   routeTable(c),
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	a.setStatus(sess.State())
	a.unsubscribe = sess.Subscribe(a.setStatus)
	return a
}

// Run bootstraps the session, opens the landing page and serves commands
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to gophauth (type 'help' for commands)")
	a.session.Bootstrap(ctx)
	a.Navigate(ctx, a.gate.LandingPath())

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the subscription and the local database.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) setStatus(st session.State) {
	var s string
	switch st.Status() {
	case session.StatusUnknown:
		s = "..."
	case session.StatusAuthenticated:
		s = st.Username()
	default:
		s = "guest"
	}
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" {
		return fmt.Sprintf("(%s)", a.status)
	}
	return fmt.Sprintf("(%s) %s", a.status, a.current)
}
