// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/mock"
	"github.com/MKhiriev/go-account-keeper/internal/service"
	"github.com/MKhiriev/go-account-keeper/models"
)

const (
	userToken  = "user.jwt.token"
	adminToken = "admin.jwt.token"
)

type testHandler struct {
	handler        *Handler
	router         *chi.Mux
	lifecycle      *mock.MockLifecycleService
	auth           *mock.MockAuthService
	reconciliation *mock.MockReconciliationService
	appInfo        *mock.MockAppInfoService
	registry       *prometheus.Registry
}

// newTestHandler wires a Handler over gomock services. userToken belongs to
// "alice" (USER) and adminToken to "root" (ADMIN); any other token is
// rejected.
func newTestHandler(t *testing.T, cfg config.Server) testHandler {
	t.Helper()
	ctrl := gomock.NewController(t)

	th := testHandler{
		lifecycle:      mock.NewMockLifecycleService(ctrl),
		auth:           mock.NewMockAuthService(ctrl),
		reconciliation: mock.NewMockReconciliationService(ctrl),
		appInfo:        mock.NewMockAppInfoService(ctrl),
		registry:       prometheus.NewRegistry(),
	}

	th.auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, raw string) (models.Token, error) {
			switch raw {
			case userToken:
				return models.Token{SignedString: raw, Username: "alice", Role: models.RoleUser}, nil
			case adminToken:
				return models.Token{SignedString: raw, Username: "root", Role: models.RoleAdmin}, nil
			default:
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			}
		},
	).AnyTimes()

	services := &service.Services{
		LifecycleService:      th.lifecycle,
		AuthService:           th.auth,
		ReconciliationService: th.reconciliation,
		AppInfoService:        th.appInfo,
	}
	th.handler = NewHandler(services, cfg, th.registry, logger.Nop())
	th.router = th.handler.Init()

	return th
}

// do sends a request through the full router.
func (th testHandler) do(method, target, token string, body any) *httptest.ResponseRecorder {
	var reader *strings.Reader
	switch b := body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "192.0.2.10:54321"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	th.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}
