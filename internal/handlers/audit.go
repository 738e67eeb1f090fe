package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/asset-audit/internal/models"
	"github.com/crucial707/asset-audit/internal/recon"
	"github.com/crucial707/asset-audit/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// AuditHandler serves audit submission, listing, resolution, deletion, and export.
type AuditHandler struct {
	Repo     *repo.AuditRepo
	Workflow *recon.Workflow
}

//
// ==========================
// Submit Audit
// ==========================
//

func (h *AuditHandler) SubmitAudit(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AssetID              int64  `json:"asset_id" validate:"required"`
		AssetTag             string `json:"asset_tag" validate:"required,max=255"`
		AssetName            string `json:"asset_name" validate:"max=255"`
		SAPAssetNumber       string `json:"sap_asset_number" validate:"max=255"`
		ExpectedLocationID   *int64 `json:"expected_location_id"`
		ExpectedLocationName string `json:"expected_location_name" validate:"max=255"`
		ActualLocationID     int64  `json:"actual_location_id" validate:"required"`
		ActualLocationName   string `json:"actual_location_name" validate:"required,max=255"`
		Notes                string `json:"notes" validate:"max=2000"`
		UserName             string `json:"user_name" validate:"max=255"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Workflow.SubmitAudit(r.Context(), recon.SubmitInput{
		AssetID:              input.AssetID,
		AssetTag:             input.AssetTag,
		AssetName:            input.AssetName,
		SAPAssetNumber:       input.SAPAssetNumber,
		ExpectedLocationID:   input.ExpectedLocationID,
		ExpectedLocationName: input.ExpectedLocationName,
		ActualLocationID:     input.ActualLocationID,
		ActualLocationName:   input.ActualLocationName,
		Notes:                input.Notes,
		UserName:             input.UserName,
	})
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

//
// ==========================
// List Audits
// ==========================
//

// ListAudits returns audit records newest-first. Query: user (optional)
// filters to one operator's audits.
func (h *AuditHandler) ListAudits(w http.ResponseWriter, r *http.Request) {
	var (
		records []models.AuditRecord
		err     error
	)
	if user := r.URL.Query().Get("user"); user != "" {
		records, err = h.Repo.ListByUser(r.Context(), user)
	} else {
		records, err = h.Repo.ListAll(r.Context())
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.AuditRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

//
// ==========================
// Resolve Audits (batch)
// ==========================
//

func (h *AuditHandler) ResolveAudits(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDs        []int64 `json:"ids"`
		ResolvedBy string  `json:"resolved_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	report, err := h.Workflow.ResolveBatch(r.Context(), input.IDs, input.ResolvedBy)
	if err != nil {
		if errors.Is(err, recon.ErrNoIDs) {
			JSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

//
// ==========================
// Delete Audit
// ==========================
//

func (h *AuditHandler) DeleteAudit(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		JSONError(w, "invalid audit id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "audit not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Export Audits (CSV)
// ==========================
//

var exportHeader = []string{
	"id", "asset_id", "asset_tag", "asset_name", "sap_asset_number",
	"expected_location", "actual_location", "status", "notes", "user_name",
	"snipeit_audit_posted", "created_at", "resolved_at", "resolved_by",
}

// ExportAudits streams all audit records as a CSV download, newest first.
func (h *AuditHandler) ExportAudits(w http.ResponseWriter, r *http.Request) {
	records, err := h.Repo.ListAll(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audits.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, rec := range records {
		resolvedAt := ""
		if rec.ResolvedAt != nil {
			resolvedAt = rec.ResolvedAt.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			strconv.FormatInt(rec.ID, 10),
			strconv.FormatInt(rec.AssetID, 10),
			rec.AssetTag,
			rec.AssetName,
			rec.SAPAssetNumber,
			rec.ExpectedLocationName,
			rec.ActualLocationName,
			rec.Status,
			rec.Notes,
			rec.UserName,
			strconv.FormatBool(rec.SnipeITAuditPosted),
			rec.CreatedAt.Format(time.RFC3339),
			resolvedAt,
			rec.ResolvedBy,
		})
	}
	cw.Flush()
}
