package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/crucial707/asset-audit/internal/snipeit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// now is mid-2024 in all classifier tests; the year boundary is 2024-01-01.
var classifyNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func rawAsset(t *testing.T, jsonBody string) snipeit.Asset {
	t.Helper()
	var a snipeit.Asset
	require.NoError(t, json.Unmarshal([]byte(jsonBody), &a))
	return a
}

func TestClassify_NeverAuditedOnlyInNeverBucket(t *testing.T) {
	assets := []snipeit.Asset{
		rawAsset(t, `{"id": 1, "asset_tag": "A-1"}`),
	}
	snap := Classify(assets, classifyNow)

	require.Len(t, snap.NeverAudited, 1)
	assert.Empty(t, snap.NotAuditedThisYear, "never-audited assets stay out of the not-this-year bucket")
	assert.Empty(t, snap.AuditOverdue)
	require.Len(t, snap.AllAssets, 1)
	assert.True(t, snap.AllAssets[0].NeverAudited)
	assert.True(t, snap.AllAssets[0].NotAuditedThisYear, "the per-asset flag keeps never-OR-stale semantics")
	assert.False(t, snap.AllAssets[0].AuditOverdue)
}

func TestClassify_StaleLastAudit(t *testing.T) {
	assets := []snipeit.Asset{
		rawAsset(t, `{"id": 1, "asset_tag": "OLD", "last_audit_date": {"datetime": "2023-03-10T09:00:00Z"}}`),
		rawAsset(t, `{"id": 2, "asset_tag": "FRESH", "last_audit_date": "2024-02-01"}`),
	}
	snap := Classify(assets, classifyNow)

	require.Len(t, snap.NotAuditedThisYear, 1)
	assert.Equal(t, "OLD", snap.NotAuditedThisYear[0].Tag)
	assert.Empty(t, snap.NeverAudited)
	assert.False(t, snap.AllAssets[1].NotAuditedThisYear)
}

func TestClassify_NoNextAuditNeverOverdue(t *testing.T) {
	// Long unaudited but no next date scheduled: never overdue.
	assets := []snipeit.Asset{
		rawAsset(t, `{"id": 1, "asset_tag": "A-1", "last_audit_date": "2019-01-01"}`),
	}
	snap := Classify(assets, classifyNow)
	assert.Empty(t, snap.AuditOverdue)
	assert.False(t, snap.AllAssets[0].AuditOverdue)
}

func TestClassify_OverdueIndependentOfOtherBuckets(t *testing.T) {
	assets := []snipeit.Asset{
		// never audited AND overdue: appears in both never and overdue
		rawAsset(t, `{"id": 1, "asset_tag": "N-1", "next_audit_date": "2024-01-01"}`),
		// stale AND overdue: appears in both not-this-year and overdue
		rawAsset(t, `{"id": 2, "asset_tag": "S-1", "last_audit_date": "2023-01-01", "next_audit_date": "2024-01-01"}`),
		// audited this year, next audit in the future: no buckets
		rawAsset(t, `{"id": 3, "asset_tag": "OK-1", "last_audit_date": "2024-05-01", "next_audit_date": "2025-05-01"}`),
	}
	snap := Classify(assets, classifyNow)

	require.Len(t, snap.NeverAudited, 1)
	require.Len(t, snap.NotAuditedThisYear, 1)
	require.Len(t, snap.AuditOverdue, 2)
	assert.Equal(t, "N-1", snap.AuditOverdue[0].Tag)
	assert.Equal(t, "S-1", snap.AuditOverdue[1].Tag)
	assert.Equal(t, 3, snap.Total)
}

func TestClassify_UnparseableDateIsNotNeverAudited(t *testing.T) {
	assets := []snipeit.Asset{
		rawAsset(t, `{"id": 1, "asset_tag": "A-1", "last_audit_date": "not a date"}`),
	}
	snap := Classify(assets, classifyNow)

	assert.Empty(t, snap.NeverAudited, "a present but unparseable date is not absence")
	assert.Empty(t, snap.NotAuditedThisYear, "unparseable dates parse to null and assert nothing")
	assert.False(t, snap.AllAssets[0].NeverAudited)
}

func TestClassify_Projection(t *testing.T) {
	a := rawAsset(t, `{
		"id": 11, "asset_tag": "LT-11", "name": "eng laptop", "serial": "SN11",
		"model": {"id": 2, "name": "XPS 13"},
		"category": {"id": 3, "name": "Laptops"},
		"status_label": {"id": 4, "name": "Deployed"},
		"rtd_location": {"id": 6, "name": "Storage"},
		"location": {"id": 5, "name": "HQ"},
		"assigned_to": {"id": 8, "name": "Dana", "username": "dana"},
		"custom_fields": {"SAP Asset Number": {"field": "_snipeit_sap_1", "value": "77001"}},
		"last_audit_date": {"datetime": "2024-01-15T00:00:00Z"},
		"next_audit_date": {"datetime": "2025-01-15T00:00:00Z"}
	}`)

	v := Project(&a)
	assert.Equal(t, int64(11), v.ID)
	assert.Equal(t, "LT-11", v.Tag)
	assert.Equal(t, "XPS 13", v.Model)
	assert.Equal(t, "Laptops", v.Category)
	assert.Equal(t, "Deployed", v.StatusLabel)
	assert.Equal(t, "HQ", v.Location, "checked-out location wins over the default one")
	require.NotNil(t, v.LocationID)
	assert.Equal(t, int64(5), *v.LocationID)
	assert.Equal(t, "Dana", v.AssignedTo)
	assert.Equal(t, "77001", v.SAPAssetNumber)
	assert.Equal(t, "2024-01-15T00:00:00Z", v.LastAuditDate)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{
		"2023-01-01T00:00:00Z",
		"2023-01-01 00:00:00",
		"2023-01-01",
		"Jan 1, 2023",
	} {
		got, ok := parseDate(raw)
		require.True(t, ok, "should parse %q", raw)
		assert.Equal(t, 2023, got.Year())
	}
	_, ok := parseDate("")
	assert.False(t, ok)
	_, ok = parseDate("tomorrow-ish")
	assert.False(t, ok)
}
