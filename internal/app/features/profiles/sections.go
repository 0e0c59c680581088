package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/debounce"
	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateSection handles PATCH /api/profiles/{email}/sections/{section}.
// Owner only. The body is the full replacement array for that section.
// Accepted edits are coalesced by the debounced updater, so the response
// is 202 and the write lands up to a debounce window later.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	email := pathEmail(r)
	user, ok := auth.CurrentUser(r)
	if !ok || normalize.Email(user.Email) != email {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	section, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown section %q", chi.URLParam(r, "section")))
		return
	}

	payload, err := decodeSection(section, r)
	if err != nil {
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": ve.Reason,
				"field": ve.Field,
			})
			return
		}
		writeError(w, http.StatusBadRequest, "Malformed section payload")
		return
	}

	h.updaterFor(email).Update(section, payload)
	h.Log.Debug("section edit accepted",
		zap.String("email", email), zap.String("section", string(section)))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"section": string(section),
		"status":  string(debounce.StatusPending),
	})
}

// SyncStatus handles GET /api/profiles/{email}/sync-status. Owner or
// admin. Sections never edited through the updater report synced.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	email := pathEmail(r)
	if _, ok := canAccess(r, email); !ok {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	statuses := map[string]string{}
	for _, s := range models.AllSections {
		statuses[string(s)] = string(h.updaterFor(email).Status(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": statuses})
}

// decodeSection parses and validates the replacement array for one
// section. Free-text fields are sanitized to plain text; blob paths and
// links pass through untouched. A validation failure means the write is
// never attempted.
func decodeSection(section models.Section, r *http.Request) (any, error) {
	dec := json.NewDecoder(r.Body)

	switch section {
	case models.SectionEducation:
		var entries []models.Education
		if err := dec.Decode(&entries); err != nil {
			return nil, err
		}
		for i := range entries {
			e := &entries[i]
			e.Degree = htmlsanitize.Text(e.Degree)
			e.Field = htmlsanitize.Text(e.Field)
			e.Institution = htmlsanitize.Text(e.Institution)
			e.Year = normalize.Year(e.Year)
			if e.Degree == "" {
				return nil, errs.Validation("degree", fmt.Sprintf("education entry %d: degree is required", i+1))
			}
			if e.Institution == "" {
				return nil, errs.Validation("institution", fmt.Sprintf("education entry %d: institution is required", i+1))
			}
		}
		if entries == nil {
			entries = []models.Education{}
		}
		return entries, nil

	case models.SectionEngagements:
		var entries []models.ResearchEngagement
		if err := dec.Decode(&entries); err != nil {
			return nil, err
		}
		for i := range entries {
			e := &entries[i]
			e.Title = htmlsanitize.Text(e.Title)
			e.Role = htmlsanitize.Text(e.Role)
			e.Year = normalize.Year(e.Year)
			if e.Title == "" {
				return nil, errs.Validation("title", fmt.Sprintf("engagement %d: title is required", i+1))
			}
			if e.Role == "" {
				return nil, errs.Validation("role", fmt.Sprintf("engagement %d: role is required", i+1))
			}
		}
		if entries == nil {
			entries = []models.ResearchEngagement{}
		}
		return entries, nil

	case models.SectionPublications:
		var entries []models.ResearchPublication
		if err := dec.Decode(&entries); err != nil {
			return nil, err
		}
		for i := range entries {
			e := &entries[i]
			e.Title = htmlsanitize.Text(e.Title)
			e.Journal = htmlsanitize.Text(e.Journal)
			e.Year = normalize.Year(e.Year)
			if e.Title == "" {
				return nil, errs.Validation("title", fmt.Sprintf("publication %d: title is required", i+1))
			}
			if e.Journal == "" {
				return nil, errs.Validation("journal", fmt.Sprintf("publication %d: journal is required", i+1))
			}
		}
		if entries == nil {
			entries = []models.ResearchPublication{}
		}
		return entries, nil

	case models.SectionTitles:
		var entries []models.ResearchTitle
		if err := dec.Decode(&entries); err != nil {
			return nil, err
		}
		for i := range entries {
			e := &entries[i]
			e.Title = htmlsanitize.Text(e.Title)
			e.FundingAgency = htmlsanitize.Text(e.FundingAgency)
			e.Year = normalize.Year(e.Year)
			if e.Title == "" {
				return nil, errs.Validation("title", fmt.Sprintf("research title %d: title is required", i+1))
			}
			if e.Type != models.ResearchTypeSelfFunded && e.Type != models.ResearchTypeFunded {
				return nil, errs.Validation("type", fmt.Sprintf("research title %d: type must be %q or %q", i+1, models.ResearchTypeSelfFunded, models.ResearchTypeFunded))
			}
			if e.Status != models.ResearchStatusOngoing && e.Status != models.ResearchStatusCompleted {
				return nil, errs.Validation("status", fmt.Sprintf("research title %d: status must be %q or %q", i+1, models.ResearchStatusOngoing, models.ResearchStatusCompleted))
			}
			if e.Type == models.ResearchTypeFunded && e.FundingAgency == "" {
				return nil, errs.Validation("fundingAgency", fmt.Sprintf("research title %d: funding agency is required for funded research", i+1))
			}
		}
		if entries == nil {
			entries = []models.ResearchTitle{}
		}
		return entries, nil
	}

	return nil, errs.Validation("section", fmt.Sprintf("unknown section %q", section))
}
