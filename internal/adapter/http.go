// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

type httpAccountAdapter struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewHTTPAccountAdapter returns the REST implementation of [AccountAdapter].
// cfg.HTTPAddress may omit the scheme, "http://" is assumed. cfg.Token, if
// set, is used for authenticated requests.
func NewHTTPAccountAdapter(cfg config.Adapter, logger *logger.Logger) (AccountAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	a := &httpAccountAdapter{client: client, logger: logger}
	a.SetToken(cfg.Token)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpAccountAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
	h.client.SetAuthToken(h.token)
}

func (h *httpAccountAdapter) Token() string {
	return h.token
}

func (h *httpAccountAdapter) Create(ctx context.Context, user models.User, password string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.CreateUserRequest{User: user, Password: password}).
		Post("/api/users/")
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return mapHTTPError(resp)
}

// Login stores the bearer token from the Authorization response header.
func (h *httpAccountAdapter) Login(ctx context.Context, username, password string) (models.Token, error) {
	var token models.Token

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.LoginRequest{Username: username, Password: password}).
		SetResult(&token).
		Post("/api/users/login")
	if err != nil {
		return models.Token{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	signed, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(signed)
	token.SignedString = signed
	h.logger.Debug().Str("func", "*httpAccountAdapter.Login").Str("username", token.Username).Msg("logged in")

	return token, nil
}

func (h *httpAccountAdapter) Get(ctx context.Context, username string) (models.User, error) {
	var user models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetResult(&user).
		Get("/api/users/{username}")
	if err != nil {
		return models.User{}, fmt.Errorf("get request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpAccountAdapter) Delete(ctx context.Context, username string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		Delete("/api/users/{username}")
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpAccountAdapter) Rename(ctx context.Context, oldUsername, newUsername string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("username", oldUsername).
		SetBody(models.RenameRequest{NewUsername: newUsername}).
		Put("/api/users/{username}/username")
	if err != nil {
		return fmt.Errorf("rename request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpAccountAdapter) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetBody(models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}).
		Put("/api/users/{username}/password")
	if err != nil {
		return fmt.Errorf("change password request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpAccountAdapter) ChangeAttribute(ctx context.Context, username string, field models.Field, value string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetBody(models.ChangeAttributeRequest{Field: field, Value: value}).
		Patch("/api/users/{username}/attributes")
	if err != nil {
		return fmt.Errorf("change attribute request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpAccountAdapter) Reconciliation(ctx context.Context, audit bool) (models.ReconciliationReport, error) {
	var report models.ReconciliationReport

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("audit", strconv.FormatBool(audit)).
		SetResult(&report).
		Get("/api/admin/reconciliation")
	if err != nil {
		return models.ReconciliationReport{}, fmt.Errorf("reconciliation request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ReconciliationReport{}, err
	}

	return report, nil
}
