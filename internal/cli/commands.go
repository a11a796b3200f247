package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keyrunes/keyrunes-go/pkg/keyrunes"
)

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	identity := fs.String("identity", "", "username or email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *identity == "" || *password == "" {
		return errors.New("login requires -identity and -password")
	}

	cred, err := a.client.Login(ctx, *identity, *password, a.cfg.Namespace)
	if err != nil {
		return err
	}
	a.rememberSession(*cred)

	fmt.Println("logged in")
	if cred.ExpiresAt != nil {
		fmt.Printf("session expires at %s\n", cred.ExpiresAt.Format(time.RFC3339))
	} else if cred.ExpiresIn > 0 {
		fmt.Printf("session expires in %ds\n", cred.ExpiresIn)
	}
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (minimum 8 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return errors.New("register requires -username, -email and -password")
	}

	user, err := a.client.Register(ctx, *username, *email, *password, a.cfg.Namespace)
	if err != nil {
		return err
	}

	fmt.Printf("registered %s (%s), id %s\n", user.Username, user.Email, user.ID)
	return nil
}

func (a *App) cmdRegisterAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register-admin", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	adminKey := fs.String("admin-key", "", "deployment admin key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" || *adminKey == "" {
		return errors.New("register-admin requires -username, -email, -password and -admin-key")
	}

	user, err := a.client.RegisterAdmin(ctx, *username, *email, *password, *adminKey, a.cfg.Namespace)
	if err != nil {
		return err
	}

	fmt.Printf("registered admin %s (%s), id %s\n", user.Username, user.Email, user.ID)
	return nil
}

func (a *App) cmdMe(ctx context.Context) error {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	printUser(user)
	return nil
}

func (a *App) cmdUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: keyrunes user <id>")
	}

	user, err := a.client.User(ctx, args[0])
	if err != nil {
		return err
	}
	printUser(user)
	return nil
}

func (a *App) cmdCheckGroup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check-group", flag.ContinueOnError)
	userID := fs.String("user", "", "user id (defaults to the current user)")
	groupID := fs.String("group", "", "group id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *groupID == "" {
		return errors.New("check-group requires -group")
	}

	id := *userID
	if id == "" {
		me, err := a.client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		id = me.ID
	}

	has, err := a.client.HasGroup(ctx, id, *groupID)
	if err != nil {
		return err
	}

	if has {
		fmt.Printf("user %s belongs to group %s\n", id, *groupID)
	} else {
		fmt.Printf("user %s does not belong to group %s\n", id, *groupID)
	}
	return nil
}

// cmdWhoami prints claims from the remembered token without verifying its
// signature. Verification belongs to the Keyrunes service; this is display
// only.
func (a *App) cmdWhoami() error {
	cred, ok := a.client.Store().Get()
	if !ok {
		return errors.New("not logged in")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, claims); err != nil {
		return fmt.Errorf("token is not a JWT: %w", err)
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Printf("subject: %s\n", sub)
	}
	if iss, err := claims.GetIssuer(); err == nil && iss != "" {
		fmt.Printf("issuer:  %s\n", iss)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Printf("expires: %s\n", exp.Format(time.RFC3339))
	}
	return nil
}

func (a *App) cmdLogout() error {
	a.client.ClearToken()
	if a.file != nil {
		if err := a.file.Delete(); err != nil {
			return err
		}
	}
	fmt.Println("logged out")
	return nil
}

func printUser(user *keyrunes.Principal) {
	fmt.Printf("id:       %s\n", user.ID)
	fmt.Printf("username: %s\n", user.Username)
	fmt.Printf("email:    %s\n", user.Email)
	if len(user.Groups) > 0 {
		fmt.Printf("groups:   %s\n", strings.Join(user.Groups, ", "))
	}
	if user.CreatedAt != nil {
		fmt.Printf("created:  %s\n", user.CreatedAt.Format(time.RFC3339))
	}
}
