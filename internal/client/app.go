// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// App runs one admin subcommand per invocation.
type App struct {
	accounts  adapter.AccountAdapter
	passwords PasswordReader
	stdout    io.Writer
	stderr    io.Writer
	commands  map[string]command

	logger *logger.Logger
}

// NewApp builds the subcommand table. Passwords are never taken from args;
// they come from passwords.
func NewApp(accounts adapter.AccountAdapter, passwords PasswordReader, stdout, stderr io.Writer, logger *logger.Logger) *App {
	a := &App{
		accounts:  accounts,
		passwords: passwords,
		stdout:    stdout,
		stderr:    stderr,
		logger:    logger,
	}

	a.commands = map[string]command{
		"create":         {usage: "create -username NAME [-display-name ..] [-email ..] [-birth-date DD-MM-YYYY] [-gender ..] [-language EN|ES|EU] [-role USER|MOD|ADMIN]", run: a.create},
		"login":          {usage: "login -username NAME", run: a.login},
		"get":            {usage: "get USERNAME", run: a.get},
		"delete":         {usage: "delete USERNAME", run: a.delete},
		"rename":         {usage: "rename OLD NEW", run: a.rename},
		"passwd":         {usage: "passwd -username NAME", run: a.passwd},
		"seed":           {usage: "seed [-replace] FILE", run: a.seed},
		"set":            {usage: "set USERNAME FIELD VALUE", run: a.set},
		"reconciliation": {usage: "reconciliation [-audit]", run: a.reconciliation},
		"whoami":         {usage: "whoami", run: a.whoami},
	}

	return a
}

// Run dispatches args[0] to its subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}

	a.logger.Debug().Str("func", "*App.Run").Str("command", args[0]).Msg("running command")
	return cmd.run(ctx, args[1:])
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.stderr, "commands:")
	for _, name := range names {
		fmt.Fprintf(a.stderr, "  %s\n", a.commands[name].usage)
	}
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *App) create(ctx context.Context, args []string) error {
	var user models.User
	var language, role string

	fs := a.newFlagSet("create")
	fs.StringVar(&user.Username, "username", "", "Username")
	fs.StringVar(&user.DisplayName, "display-name", "", "Display name")
	fs.StringVar(&user.Email, "email", "", "Email address")
	fs.StringVar(&user.BirthDate, "birth-date", "", "Birth date (DD-MM-YYYY)")
	fs.StringVar(&user.Gender, "gender", "", "Gender")
	fs.StringVar(&language, "language", "", "Preferred language (EN|ES|EU)")
	fs.StringVar(&role, "role", "", "Role (USER|MOD|ADMIN)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if user.Username == "" {
		return fmt.Errorf("%w: -username is required", ErrUsage)
	}

	password, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}

	user.PreferredLanguage = models.Language(strings.ToUpper(language))
	user.Role = models.Role(strings.ToUpper(role))

	if err = a.accounts.Create(ctx, user, password); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "created %s\n", user.Username)
	return nil
}

// login prints the bearer token so it can be exported as ADAPTER_TOKEN.
func (a *App) login(ctx context.Context, args []string) error {
	var username string

	fs := a.newFlagSet("login")
	fs.StringVar(&username, "username", "", "Username")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if username == "" {
		return fmt.Errorf("%w: -username is required", ErrUsage)
	}

	password, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}

	token, err := a.accounts.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, token.SignedString)
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	username, err := positional(args, 1)
	if err != nil {
		return err
	}

	user, err := a.accounts.Get(ctx, username[0])
	if err != nil {
		return err
	}

	return a.printJSON(user)
}

func (a *App) delete(ctx context.Context, args []string) error {
	username, err := positional(args, 1)
	if err != nil {
		return err
	}

	if err = a.accounts.Delete(ctx, username[0]); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "deleted %s\n", username[0])
	return nil
}

func (a *App) rename(ctx context.Context, args []string) error {
	names, err := positional(args, 2)
	if err != nil {
		return err
	}

	if err = a.accounts.Rename(ctx, names[0], names[1]); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "renamed %s to %s\n", names[0], names[1])
	return nil
}

func (a *App) passwd(ctx context.Context, args []string) error {
	var username string

	fs := a.newFlagSet("passwd")
	fs.StringVar(&username, "username", "", "Username")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if username == "" {
		return fmt.Errorf("%w: -username is required", ErrUsage)
	}

	oldPassword, err := a.passwords.ReadPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := a.readPassword("New password: ")
	if err != nil {
		return err
	}

	if err = a.accounts.ChangePassword(ctx, username, oldPassword, newPassword); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "password changed for %s\n", username)
	return nil
}

func (a *App) set(ctx context.Context, args []string) error {
	parts, err := positional(args, 3)
	if err != nil {
		return err
	}

	field := models.Field(parts[1])
	if !field.IsValid() {
		return fmt.Errorf("%w: unknown field %q", ErrUsage, parts[1])
	}

	if err = a.accounts.ChangeAttribute(ctx, parts[0], field, parts[2]); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s of %s set\n", field, parts[0])
	return nil
}

func (a *App) reconciliation(ctx context.Context, args []string) error {
	var audit bool

	fs := a.newFlagSet("reconciliation")
	fs.BoolVar(&audit, "audit", false, "Compare both stores now")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	report, err := a.accounts.Reconciliation(ctx, audit)
	if err != nil {
		return err
	}

	return a.printJSON(report)
}

// whoami prints the subject of the configured token. The signature is not
// checked; the server does that on every request.
func (a *App) whoami(_ context.Context, args []string) error {
	if _, err := positional(args, 0); err != nil {
		return err
	}

	token := a.accounts.Token()
	if token == "" {
		return ErrNoToken
	}

	username, err := utils.ParseUsernameFromJWT(token)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	fmt.Fprintln(a.stdout, username)
	return nil
}

// seedFile is the layout of a bulk provisioning file.
type seedFile struct {
	Users []models.CreateUserRequest `json:"users"`
}

// seed creates every user listed in a seed file. With -replace, existing
// accounts of the same name are deleted first. It keeps going after a
// failed entry and returns all failures joined.
func (a *App) seed(ctx context.Context, args []string) error {
	var replace bool

	fs := a.newFlagSet("seed")
	fs.BoolVar(&replace, "replace", false, "Delete existing users before creating them")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	path, err := positional(fs.Args(), 1)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path[0])
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var file seedFile
	if err = json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("%w: seed file is not valid JSON: %w", ErrUsage, err)
	}

	var errs []error
	for _, entry := range file.Users {
		if replace {
			if err = a.accounts.Delete(ctx, entry.Username); err != nil && !errors.Is(err, adapter.ErrNotFound) {
				errs = append(errs, fmt.Errorf("delete %s: %w", entry.Username, err))
				fmt.Fprintf(a.stdout, "failed %s\n", entry.Username)
				continue
			}
		}

		if err = a.accounts.Create(ctx, entry.User, entry.Password); err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", entry.Username, err))
			fmt.Fprintf(a.stdout, "failed %s\n", entry.Username)
			continue
		}
		fmt.Fprintf(a.stdout, "created %s\n", entry.Username)
	}

	a.logger.Info().Str("func", "*App.seed").Int("users", len(file.Users)).Int("failed", len(errs)).Msg("seed finished")
	return errors.Join(errs...)
}

// readPassword reads a secret that must not be empty.
func (a *App) readPassword(prompt string) (string, error) {
	password, err := a.passwords.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", ErrUsage)
	}
	return password, nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// positional returns exactly n positional args.
func positional(args []string, n int) ([]string, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", ErrUsage, n, len(args))
	}
	return args, nil
}
