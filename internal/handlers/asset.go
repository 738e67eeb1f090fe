package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/crucial707/asset-audit/internal/models"
	"github.com/crucial707/asset-audit/internal/snapshot"
	"github.com/crucial707/asset-audit/internal/snipeit"
	"github.com/go-chi/chi/v5"
)

// AssetHandler serves the remote-backed asset endpoints: snapshot, lookup,
// direct fetch, location patch, locations, and current user.
type AssetHandler struct {
	Client *snipeit.Client
	Cache  *snapshot.Cache
}

//
// ==========================
// Get Snapshot
// ==========================
//

// GetSnapshot returns the classified inventory snapshot. Query:
// refresh=true forces a full refetch regardless of cache age.
func (h *AssetHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"

	res, err := h.Cache.Get(r.Context(), force)
	if err != nil {
		RemoteError(w, err)
		return
	}

	out := struct {
		*models.Snapshot
		Cached     bool  `json:"cached"`
		AgeSeconds int64 `json:"age_seconds"`
	}{
		Snapshot:   res.Snapshot,
		Cached:     res.Cached,
		AgeSeconds: int64(res.Age.Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

//
// ==========================
// Lookup Asset by Identifier
// ==========================
//

// LookupAsset resolves a scanned or typed identifier (tag or SAP number).
// Query: term (required).
func (h *AssetHandler) LookupAsset(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		JSONError(w, "term is required", http.StatusBadRequest)
		return
	}

	asset, err := h.Client.FindAssetByIdentifier(r.Context(), term)
	if err != nil {
		RemoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot.Project(asset))
}

//
// ==========================
// Get Asset By ID
// ==========================
//

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	asset, err := h.Client.GetAssetByID(r.Context(), id)
	if err != nil {
		RemoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot.Project(asset))
}

//
// ==========================
// Patch Asset Location
// ==========================
//

func (h *AssetHandler) PatchAssetLocation(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	var input struct {
		LocationID int64 `json:"location_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.LocationID <= 0 {
		JSONError(w, "location_id is required", http.StatusBadRequest)
		return
	}

	if err := h.Client.PatchAssetLocation(r.Context(), id, input.LocationID); err != nil {
		RemoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// List Top-Level Locations
// ==========================
//

func (h *AssetHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Client.ListTopLevelLocations(r.Context())
	if err != nil {
		RemoteError(w, err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(locations)
}

//
// ==========================
// Current User
// ==========================
//

func (h *AssetHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Client.GetCurrentUser(r.Context())
	if err != nil {
		RemoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
