// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

// reconciliation lists usernames flagged after a failed compensation.
// With ?audit=true both stores are also compared on the spot.
func (h *Handler) reconciliation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := models.ReconciliationReport{
		Flagged: h.services.ReconciliationService.Flagged(ctx),
	}

	if runAudit, _ := strconv.ParseBool(r.URL.Query().Get("audit")); runAudit {
		found, err := h.services.ReconciliationService.Audit(ctx)
		if err != nil {
			writeError(w, r, "*Handler.reconciliation", err)
			return
		}
		resp.Audit = found
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
