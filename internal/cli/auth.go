package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
)

type AuthCmd struct {
	Register AuthRegisterCmd `cmd:"" help:"Create an account and log in."`
	Login    AuthLoginCmd    `cmd:"" help:"Log in and save the session in the OS keyring."`
	Logout   AuthLogoutCmd   `cmd:"" help:"Log out and forget the saved session."`
	Whoami   AuthWhoamiCmd   `cmd:"" help:"Show the logged in user."`
}

// CredentialFlags are shared by register and login
type CredentialFlags struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Password; prompted for when omitted." env:"HABITUAL_PASSWORD"`
}

// promptPassword asks for a secret without echoing it
var promptPassword = func(title string) (string, error) {
	var pw string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&pw),
	)).WithTheme(huh.ThemeDracula()).Run()
	return pw, err
}

func (f CredentialFlags) credentials(c *Context, confirm bool) (models.Credentials, error) {
	pw := f.Password
	if pw == "" {
		var err error
		if pw, err = promptPassword("Password"); err != nil {
			return models.Credentials{}, err
		}
		if confirm {
			again, err := promptPassword("Confirm password")
			if err != nil {
				return models.Credentials{}, err
			}
			if again != pw {
				return models.Credentials{}, errors.New("passwords do not match")
			}
		}
	}
	creds := models.Credentials{Email: f.Email, Password: pw}
	if err := c.Validator.ValidateCredentials(creds).Err(); err != nil {
		return models.Credentials{}, err
	}
	return creds, nil
}

type AuthRegisterCmd struct {
	CredentialFlags `embed:""`
}

func (cmd *AuthRegisterCmd) Run(ctx *Context) error {
	creds, err := cmd.credentials(ctx, true)
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()

	u, err := ctx.Session.Register(rc, creds)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	ctx.printf("Registered and logged in as %s\n", u.Email)
	return nil
}

type AuthLoginCmd struct {
	CredentialFlags `embed:""`
}

func (cmd *AuthLoginCmd) Run(ctx *Context) error {
	creds, err := cmd.credentials(ctx, false)
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()

	u, err := ctx.Session.SignIn(rc, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	ctx.printf("Logged in as %s\n", u.Email)
	return nil
}

type AuthLogoutCmd struct{}

func (cmd *AuthLogoutCmd) Run(ctx *Context) error {
	if err := ctx.RestoreSession(); err != nil {
		if errors.Is(err, ErrLoginRequired) || errors.Is(err, session.ErrExpired) {
			ctx.println("Not logged in")
			return nil
		}
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()

	if err := ctx.Session.SignOut(rc); err != nil {
		ctx.warnf("backend logout failed, the local session was removed anyway: %v", err)
	}
	ctx.println("Logged out")
	return nil
}

type AuthWhoamiCmd struct{}

func (cmd *AuthWhoamiCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	ctx.printf("%s (ID: %s)\n", u.Email, u.ID)
	if ctx.Session.Offline() {
		ctx.println("offline: the backend could not be reached")
	}
	return nil
}
