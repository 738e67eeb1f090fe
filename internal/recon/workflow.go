package recon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/asset-audit/internal/metrics"
	"github.com/crucial707/asset-audit/internal/models"
)

// ErrNoIDs is returned when a resolve batch arrives with no audit ids.
var ErrNoIDs = errors.New("no audit ids given")

// AssetDirectory is the slice of the remote client the workflow needs.
type AssetDirectory interface {
	PostAudit(ctx context.Context, assetTag string, locationID int64, note string) error
	PatchAssetLocation(ctx context.Context, assetID, locationID int64) error
}

// AuditStore is the slice of the local audit repository the workflow needs.
type AuditStore interface {
	Insert(ctx context.Context, rec models.AuditRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (models.AuditRecord, error)
	MarkResolved(ctx context.Context, id int64, resolvedBy string, at time.Time) error
}

// Workflow orchestrates audit submission and batch resolution: the two
// paths that mix remote and local side effects.
type Workflow struct {
	dir   AssetDirectory
	store AuditStore
	now   func() time.Time
}

// NewWorkflow wires the workflow to a remote directory and a local store.
func NewWorkflow(dir AssetDirectory, store AuditStore) *Workflow {
	return &Workflow{dir: dir, store: store, now: time.Now}
}

// SubmitInput carries one scan or manual entry.
type SubmitInput struct {
	AssetID              int64
	AssetTag             string
	AssetName            string
	SAPAssetNumber       string
	ExpectedLocationID   *int64
	ExpectedLocationName string
	ActualLocationID     int64
	ActualLocationName   string
	Notes                string
	UserName             string
}

// SubmitResult reports the stored record id, the computed status, and
// whether the remote directory accepted the audit post.
type SubmitResult struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	RemotePosted bool   `json:"snipeit_audit_posted"`
}

// SubmitAudit computes the match/mismatch status from location id equality,
// posts the audit to the remote directory best-effort, and always inserts
// the local record. The local audit trail must never be lost to remote
// unavailability, so a failed post is logged and recorded as a false
// posted flag rather than propagated.
//
// Status is computed exactly once here and never recomputed. An absent
// expected location (asset previously unassigned) is a mismatch.
func (w *Workflow) SubmitAudit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	status := models.StatusMismatch
	if in.ExpectedLocationID != nil && *in.ExpectedLocationID == in.ActualLocationID {
		status = models.StatusMatch
	}

	posted := true
	if err := w.dir.PostAudit(ctx, in.AssetTag, in.ActualLocationID, in.Notes); err != nil {
		slog.Warn("remote audit post failed, saving locally anyway",
			"asset_tag", in.AssetTag, "error", err)
		posted = false
	}

	id, err := w.store.Insert(ctx, models.AuditRecord{
		AssetID:              in.AssetID,
		AssetTag:             in.AssetTag,
		AssetName:            in.AssetName,
		SAPAssetNumber:       in.SAPAssetNumber,
		ExpectedLocationID:   in.ExpectedLocationID,
		ExpectedLocationName: in.ExpectedLocationName,
		ActualLocationID:     in.ActualLocationID,
		ActualLocationName:   in.ActualLocationName,
		Status:               status,
		Notes:                in.Notes,
		UserName:             in.UserName,
		SnipeITAuditPosted:   posted,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save audit: %w", err)
	}

	metrics.IncAuditSubmitted(status)
	return SubmitResult{ID: id, Status: status, RemotePosted: posted}, nil
}

// ResolveItem is one per-id outcome of a resolve batch.
type ResolveItem struct {
	ID       int64  `json:"id"`
	Resolved bool   `json:"resolved"`
	Error    string `json:"error,omitempty"`
}

// ResolveReport aggregates a resolve batch.
type ResolveReport struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Items     []ResolveItem `json:"items"`
}

// ResolveBatch processes audit ids sequentially: each resolvable mismatch
// gets its asset's remote location patched to the observed location, then
// its local record marked resolved. A per-id failure is itemized and never
// aborts the remaining ids. resolvedBy defaults to "Admin".
func (w *Workflow) ResolveBatch(ctx context.Context, ids []int64, resolvedBy string) (ResolveReport, error) {
	if len(ids) == 0 {
		return ResolveReport{}, ErrNoIDs
	}
	if resolvedBy == "" {
		resolvedBy = "Admin"
	}

	report := ResolveReport{Items: make([]ResolveItem, 0, len(ids))}
	for _, id := range ids {
		if err := w.resolveOne(ctx, id, resolvedBy); err != nil {
			report.Failed++
			report.Items = append(report.Items, ResolveItem{ID: id, Error: err.Error()})
			metrics.IncAuditResolution("failed")
			continue
		}
		report.Succeeded++
		report.Items = append(report.Items, ResolveItem{ID: id, Resolved: true})
		metrics.IncAuditResolution("resolved")
	}
	return report, nil
}

// resolveOne applies the remote patch then the local update. The pair is
// not transactional: a crash between the two leaves the remote directory
// corrected while the local record still reads mismatch. The itemized
// report lets operators detect that divergence.
func (w *Workflow) resolveOne(ctx context.Context, id int64, resolvedBy string) error {
	rec, err := w.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch rec.Status {
	case models.StatusMismatch:
		// resolvable
	case models.StatusResolved:
		return errors.New("already resolved")
	default:
		return fmt.Errorf("status %q is not resolvable", rec.Status)
	}

	if err := w.dir.PatchAssetLocation(ctx, rec.AssetID, rec.ActualLocationID); err != nil {
		return fmt.Errorf("remote location patch: %w", err)
	}
	if err := w.store.MarkResolved(ctx, id, resolvedBy, w.now()); err != nil {
		return fmt.Errorf("mark resolved: %w", err)
	}
	return nil
}
