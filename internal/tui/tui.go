// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the interactive front end of the account client. It covers
// login, registration, profile editing and password changes on top of
// [adapter.AccountAdapter].
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/models"
)

// copyFunc puts text on the system clipboard.
type copyFunc func(text string) error

type TUI struct {
	accounts  adapter.AccountAdapter
	buildInfo models.AppBuildInfo
	copyText  copyFunc
	logger    *logger.Logger
}

func New(accounts adapter.AccountAdapter, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		accounts:  accounts,
		buildInfo: buildInfo,
		copyText:  clipboard.WriteAll,
		logger:    logger,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	t.logger.Debug().Str("func", "*TUI.Run").Msg("starting interactive mode")

	if _, err := tea.NewProgram(t.newRootModel(ctx), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

func (t *TUI) newRootModel(ctx context.Context) RootModel {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, t.accounts),
		pageRegister: NewRegisterModel(ctx, t.accounts),
		pageAccount:  NewAccountModel(ctx, t.accounts, t.copyText),
		pageProfile:  NewProfileModel(ctx, t.accounts),
		pagePassword: NewPasswordModel(ctx, t.accounts),
	}

	return NewRootModel(pages, pageMenu, t.buildInfo)
}
