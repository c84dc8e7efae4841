// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/service"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

// createUser is public. Only an ADMIN caller may create a user with a role
// other than USER.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.createUser", err)
		return
	}

	if req.Role != "" {
		role, ok := models.ParseRole(string(req.Role))
		if ok && role != models.RoleUser {
			isAdmin, err := h.callerIsAdmin(r)
			if err != nil {
				writeError(w, r, "*Handler.createUser", err)
				return
			}
			if !isAdmin {
				writeError(w, r, "*Handler.createUser", fmt.Errorf("%w: role %s requires ADMIN", ErrForbidden, role))
				return
			}
		}
	}

	if err := h.services.LifecycleService.CreateUser(ctx, req.User, req.Password); err != nil {
		writeError(w, r, "*Handler.createUser", err)
		return
	}

	log.Info().Str("func", "*Handler.createUser").Str("username", req.Username).Msg("user created")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	ok, err := h.services.LifecycleService.Authenticate(ctx, req.Username, req.Password)
	if err != nil && service.KindOf(err) != service.KindNotFound {
		writeError(w, r, "*Handler.login", err)
		return
	}
	// an unknown user is answered like a wrong password
	if !ok {
		logger.FromRequest(r).Debug().Str("func", "*Handler.login").Msg("invalid login/password")
		http.Error(w, "invalid login/password", http.StatusUnauthorized)
		return
	}

	user, err := h.services.LifecycleService.GetUser(ctx, req.Username)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, user)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, token, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.LifecycleService.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, "*Handler.getUser", err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.services.LifecycleService.DeleteUser(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeError(w, r, "*Handler.deleteUser", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) renameUser(w http.ResponseWriter, r *http.Request) {
	var req models.RenameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.renameUser", err)
		return
	}

	if err := h.services.LifecycleService.RenameUser(r.Context(), chi.URLParam(r, "username"), req.NewUsername); err != nil {
		writeError(w, r, "*Handler.renameUser", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	err := h.services.LifecycleService.ChangePassword(r.Context(), chi.URLParam(r, "username"), req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// changeAttribute refuses role changes from non-ADMIN callers.
func (h *Handler) changeAttribute(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeAttributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.changeAttribute", err)
		return
	}

	if req.Field == models.FieldRole {
		token, _ := utils.GetTokenFromContext(r.Context())
		if !token.IsAdmin() {
			writeError(w, r, "*Handler.changeAttribute", fmt.Errorf("%w: role change requires ADMIN", ErrForbidden))
			return
		}
	}

	err := h.services.LifecycleService.ChangeAttribute(r.Context(), chi.URLParam(r, "username"), req.Field, req.Value)
	if err != nil {
		writeError(w, r, "*Handler.changeAttribute", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
