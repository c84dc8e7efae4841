// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/service"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

var kindStatusMap = map[service.ErrorKind]int{
	service.KindInvalidName:         http.StatusBadRequest,
	service.KindBadFormat:           http.StatusBadRequest,
	service.KindUnsupportedLanguage: http.StatusBadRequest,
	service.KindInvalidRole:         http.StatusBadRequest,
	service.KindAdminProtected:      http.StatusForbidden,
	service.KindAlreadyExists:       http.StatusConflict,
	service.KindNotFound:            http.StatusNotFound,
	service.KindIncorrectPassword:   http.StatusUnauthorized,
	service.KindInconsistent:        http.StatusInternalServerError,
}

var errorStatusMap = map[error]int{
	ErrEmptyAuthorizationHeader:        http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	ErrForbidden:                       http.StatusForbidden,
	ErrTooManyRequests:                 http.StatusTooManyRequests,
	ErrInvalidJSON:                     http.StatusBadRequest,
}

func statusFromError(err error) int {
	if status, ok := kindStatusMap[service.KindOf(err)]; ok {
		return status
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse builds the JSON body for err. Unclassified errors are not
// echoed to the caller. An inconsistency names the operation and username
// so the operator can reconcile by hand.
func errorResponse(err error, status int) models.ErrorResponse {
	resp := models.ErrorResponse{Error: err.Error()}
	if kind := service.KindOf(err); kind != service.KindUnknown {
		resp.Kind = kind.String()
	}

	var lerr *service.LifecycleError
	if errors.As(err, &lerr) && lerr.Outcome == service.OutcomeInconsistent {
		resp.Operation = lerr.Operation
		resp.Username = lerr.Username
		return resp
	}
	if status == http.StatusInternalServerError {
		resp.Error = http.StatusText(status)
	}

	return resp
}

// writeError logs err and writes its mapped status and JSON body.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, errorResponse(err, status), status)
}
