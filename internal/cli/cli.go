// Package cli implements the keyrunes example command, a small terminal
// client for a Keyrunes deployment. It demonstrates single-caller SDK usage:
// the client's token store carries the session, and an optional sealed
// session file remembers it between invocations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/keyrunes/keyrunes-go/pkg/keyrunes"
	"github.com/keyrunes/keyrunes-go/pkg/slogx"
)

const usage = `usage: keyrunes <command> [flags]

commands:
  login          authenticate and remember the session
  register       create a new user
  register-admin create a new administrator
  me             show the current user
  user           show a user by id
  check-group    check a user's group membership
  whoami         show unverified claims of the remembered token
  logout         forget the remembered session

environment:
  KEYRUNES_URL           base address of the deployment (required)
  KEYRUNES_ORG           tenant header attached to every request
  KEYRUNES_NAMESPACE     namespace sent on login/register
  KEYRUNES_SESSION_FILE  remembered-session path (default ~/.config/keyrunes/session)
  KEYRUNES_SESSION_KEY   passphrase sealing the session file
`

// App wires the SDK client, the remembered-session store and the command
// handlers together.
type App struct {
	cfg    Config
	client *keyrunes.Client
	file   *keyrunes.FileStore // nil when no session key is configured
}

// Run executes the command named by args.
func Run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	cfg := LoadConfig()
	if cfg.BaseURL == "" {
		return errors.New("KEYRUNES_URL is not set")
	}

	log := slogx.New(slogx.Config{
		Service: "keyrunes-cli",
		Version: keyrunes.Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	client, err := keyrunes.New(cfg.BaseURL,
		keyrunes.WithTimeout(cfg.Timeout),
		keyrunes.WithLogger(log),
	)
	if err != nil {
		return err
	}

	app := &App{cfg: cfg, client: client}
	if cfg.SessionKey != "" {
		app.file = keyrunes.NewFileStore(cfg.SessionFile, cfg.SessionKey)
		app.restoreSession()
	}

	ctx := context.Background()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return app.cmdLogin(ctx, rest)
	case "register":
		return app.cmdRegister(ctx, rest)
	case "register-admin":
		return app.cmdRegisterAdmin(ctx, rest)
	case "me":
		return app.cmdMe(ctx)
	case "user":
		return app.cmdUser(ctx, rest)
	case "check-group":
		return app.cmdCheckGroup(ctx, rest)
	case "whoami":
		return app.cmdWhoami()
	case "logout":
		return app.cmdLogout()
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// restoreSession loads a remembered credential into the client's token store.
// A missing or unreadable session is not fatal; the user just isn't logged in.
func (a *App) restoreSession() {
	cred, err := a.file.Load()
	if err != nil {
		return
	}
	a.client.Store().Set(cred)
}

// rememberSession persists the credential for later invocations, when a
// session file is configured.
func (a *App) rememberSession(cred keyrunes.Credential) {
	if a.file == nil {
		return
	}
	if err := a.file.Save(cred); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not remember session: %v\n", err)
	}
}
