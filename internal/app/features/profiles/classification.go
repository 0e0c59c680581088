package profiles

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"go.uber.org/zap"
)

type classificationRequest struct {
	Department     string `json:"department"`
	Status         string `json:"status"`
	Specialization string `json:"specialization"`
}

// UpdateClassification handles PUT /api/profiles/{email}/classification.
// Admin only. Empty department and status strings are the canonical
// "unset" values, so an admin can clear a misassigned classification.
func (h *Handler) UpdateClassification(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok || !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	email := pathEmail(r)

	var req classificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed classification payload")
		return
	}

	dept := models.ParseDepartment(req.Department)
	if !dept.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "Unknown department")
		return
	}
	status := models.ParseEmploymentStatus(req.Status)
	if !status.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "Unknown employment status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Profiles.UpdateClassification(ctx, email, dept, status, htmlsanitize.Text(req.Specialization))
	if err == errs.ErrProfileNotFound {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.Log.Error("classification update failed",
			zap.String("email", email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update classification")
		return
	}

	h.Log.Info("classification updated",
		zap.String("email", email),
		zap.String("by", user.Email),
		zap.String("department", string(dept)))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
