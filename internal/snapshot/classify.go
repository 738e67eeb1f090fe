package snapshot

import (
	"time"

	"github.com/crucial707/asset-audit/internal/models"
	"github.com/crucial707/asset-audit/internal/snipeit"
)

// dateLayouts covers the formats the remote emits across its datetime and
// formatted variants.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"Jan 2, 2006 3:04 PM",
}

// parseDate parses a raw audit date string. Empty or unparseable input
// reports ok=false.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Classify turns the raw inventory into the snapshot's bucket views, using
// now as the classification instant.
//
// never_audited means the last-audit field was absent, not merely
// unparseable. The not-audited-this-year OUTPUT bucket excludes assets
// already in never_audited (partition by priority), while the per-asset
// flag keeps the never-OR-stale semantics. Overdue is computed
// independently and may overlap both.
func Classify(assets []snipeit.Asset, now time.Time) *models.Snapshot {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	snap := &models.Snapshot{
		Total:              len(assets),
		NeverAudited:       []models.AssetView{},
		NotAuditedThisYear: []models.AssetView{},
		AuditOverdue:       []models.AssetView{},
		AllAssets:          make([]models.AssetView, 0, len(assets)),
	}

	for i := range assets {
		a := &assets[i]
		v := Project(a)

		lastRaw := a.LastAuditDate.Raw()
		last, lastOK := parseDate(lastRaw)
		next, nextOK := parseDate(a.NextAuditDate.Raw())

		v.NeverAudited = lastRaw == ""
		v.NotAuditedThisYear = v.NeverAudited || (lastOK && last.Before(yearStart))
		v.AuditOverdue = nextOK && next.Before(now)

		snap.AllAssets = append(snap.AllAssets, v)
		if v.NeverAudited {
			snap.NeverAudited = append(snap.NeverAudited, v)
		} else if v.NotAuditedThisYear {
			snap.NotAuditedThisYear = append(snap.NotAuditedThisYear, v)
		}
		if v.AuditOverdue {
			snap.AuditOverdue = append(snap.AuditOverdue, v)
		}
	}
	return snap
}

// Project maps a raw remote asset to the normalized snapshot entry.
func Project(a *snipeit.Asset) models.AssetView {
	v := models.AssetView{
		ID:             a.ID,
		Tag:            a.AssetTag,
		Name:           a.Name,
		Serial:         a.Serial,
		AssignedTo:     a.AssignedTo.DisplayName(),
		SAPAssetNumber: snipeit.SAPAssetNumber(a.CustomFields),
		LastAuditDate:  a.LastAuditDate.Raw(),
		NextAuditDate:  a.NextAuditDate.Raw(),
	}
	if a.Model != nil {
		v.Model = a.Model.Name
	}
	if a.Category != nil {
		v.Category = a.Category.Name
	}
	if a.StatusLabel != nil {
		v.StatusLabel = a.StatusLabel.Name
	}
	if loc := a.CurrentLocation(); loc != nil {
		v.Location = loc.Name
		id := loc.ID
		v.LocationID = &id
	}
	return v
}
