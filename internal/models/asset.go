package models

// AssetView is the normalized projection of one remote asset used by the
// snapshot and its bucket views.
type AssetView struct {
	ID             int64  `json:"id"`
	Tag            string `json:"asset_tag"`
	Name           string `json:"name"`
	Serial         string `json:"serial,omitempty"`
	Model          string `json:"model,omitempty"`
	Category       string `json:"category,omitempty"`
	Location       string `json:"location,omitempty"`
	LocationID     *int64 `json:"location_id"`
	AssignedTo     string `json:"assigned_to,omitempty"`
	StatusLabel    string `json:"status_label,omitempty"`
	SAPAssetNumber string `json:"sap_asset_number,omitempty"`
	LastAuditDate  string `json:"last_audit_date,omitempty"`
	NextAuditDate  string `json:"next_audit_date,omitempty"`

	NeverAudited       bool `json:"never_audited"`
	NotAuditedThisYear bool `json:"not_audited_this_year"`
	AuditOverdue       bool `json:"audit_overdue"`
}

// Snapshot is the classified view of the full remote inventory. It lives
// only in the snapshot cache and is never persisted.
//
// NeverAudited and NotAuditedThisYear partition by priority: an asset that
// was never audited appears only in NeverAudited. AuditOverdue is computed
// independently and may overlap both.
type Snapshot struct {
	Total              int         `json:"total"`
	NeverAudited       []AssetView `json:"never_audited"`
	NotAuditedThisYear []AssetView `json:"not_audited_this_year"`
	AuditOverdue       []AssetView `json:"audit_overdue"`
	AllAssets          []AssetView `json:"all_assets"`
}
