package recon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crucial707/asset-audit/internal/models"
	"github.com/crucial707/asset-audit/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	postErr    error
	postCalls  int
	patchErr   map[int64]error // per asset id
	patchCalls []int64
}

func (d *fakeDirectory) PostAudit(ctx context.Context, assetTag string, locationID int64, note string) error {
	d.postCalls++
	return d.postErr
}

func (d *fakeDirectory) PatchAssetLocation(ctx context.Context, assetID, locationID int64) error {
	d.patchCalls = append(d.patchCalls, assetID)
	if d.patchErr != nil {
		return d.patchErr[assetID]
	}
	return nil
}

type fakeStore struct {
	records   map[int64]*models.AuditRecord
	nextID    int64
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int64]*models.AuditRecord), nextID: 1}
}

func (s *fakeStore) Insert(ctx context.Context, rec models.AuditRecord) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	rec.ID = s.nextID
	rec.CreatedAt = time.Now()
	s.records[rec.ID] = &rec
	s.nextID++
	return rec.ID, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (models.AuditRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return models.AuditRecord{}, repo.ErrNotFound
	}
	return *rec, nil
}

func (s *fakeStore) MarkResolved(ctx context.Context, id int64, resolvedBy string, at time.Time) error {
	rec, ok := s.records[id]
	if !ok || rec.Status != models.StatusMismatch {
		return repo.ErrNotFound
	}
	rec.Status = models.StatusResolved
	rec.ResolvedAt = &at
	rec.ResolvedBy = resolvedBy
	return nil
}

func (s *fakeStore) addMismatch(assetID, actualLocation int64) int64 {
	id := s.nextID
	s.nextID++
	s.records[id] = &models.AuditRecord{
		ID:               id,
		AssetID:          assetID,
		ActualLocationID: actualLocation,
		Status:           models.StatusMismatch,
	}
	return id
}

func int64Ptr(v int64) *int64 { return &v }

func TestSubmitAudit_Match(t *testing.T) {
	dir := &fakeDirectory{}
	store := newFakeStore()
	w := NewWorkflow(dir, store)

	res, err := w.SubmitAudit(context.Background(), SubmitInput{
		AssetID:            1,
		AssetTag:           "A-1",
		ExpectedLocationID: int64Ptr(5),
		ActualLocationID:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusMatch, res.Status)
	assert.True(t, res.RemotePosted)
	assert.Equal(t, 1, dir.postCalls)
	assert.Equal(t, models.StatusMatch, store.records[res.ID].Status)
}

func TestSubmitAudit_Mismatch(t *testing.T) {
	tests := []struct {
		name     string
		expected *int64
		actual   int64
	}{
		{"different ids", int64Ptr(5), 6},
		{"no expected location", nil, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkflow(&fakeDirectory{}, newFakeStore())
			res, err := w.SubmitAudit(context.Background(), SubmitInput{
				AssetID:            1,
				AssetTag:           "A-1",
				ExpectedLocationID: tt.expected,
				ActualLocationID:   tt.actual,
			})
			require.NoError(t, err)
			assert.Equal(t, models.StatusMismatch, res.Status)
		})
	}
}

func TestSubmitAudit_RemotePostFailureIsSwallowed(t *testing.T) {
	dir := &fakeDirectory{postErr: errors.New("remote down")}
	store := newFakeStore()
	w := NewWorkflow(dir, store)

	res, err := w.SubmitAudit(context.Background(), SubmitInput{
		AssetID:          1,
		AssetTag:         "A-1",
		ActualLocationID: 3,
	})
	require.NoError(t, err, "local save must proceed when the remote post fails")
	assert.False(t, res.RemotePosted)
	require.Contains(t, store.records, res.ID)
	assert.False(t, store.records[res.ID].SnipeITAuditPosted)
}

func TestSubmitAudit_LocalInsertFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("db down")
	w := NewWorkflow(&fakeDirectory{}, store)

	_, err := w.SubmitAudit(context.Background(), SubmitInput{AssetID: 1, AssetTag: "A-1", ActualLocationID: 3})
	assert.Error(t, err)
}

func TestResolveBatch_EmptyIDs(t *testing.T) {
	w := NewWorkflow(&fakeDirectory{}, newFakeStore())
	_, err := w.ResolveBatch(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNoIDs)
}

func TestResolveBatch_MiddleFailureDoesNotAbort(t *testing.T) {
	store := newFakeStore()
	id1 := store.addMismatch(101, 1)
	id2 := store.addMismatch(102, 2)
	id3 := store.addMismatch(103, 3)

	dir := &fakeDirectory{patchErr: map[int64]error{102: errors.New("patch failed")}}
	w := NewWorkflow(dir, store)

	report, err := w.ResolveBatch(context.Background(), []int64{id1, id2, id3}, "casey")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Items, 3)
	assert.True(t, report.Items[0].Resolved)
	assert.False(t, report.Items[1].Resolved)
	assert.Contains(t, report.Items[1].Error, "patch failed")
	assert.True(t, report.Items[2].Resolved)

	assert.Equal(t, models.StatusResolved, store.records[id1].Status)
	assert.Equal(t, models.StatusMismatch, store.records[id2].Status, "failed item stays a mismatch")
	assert.Equal(t, models.StatusResolved, store.records[id3].Status)
	assert.Equal(t, "casey", store.records[id1].ResolvedBy)
	assert.Equal(t, []int64{101, 102, 103}, dir.patchCalls)
}

func TestResolveBatch_SecondResolveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	id := store.addMismatch(101, 1)
	w := NewWorkflow(&fakeDirectory{}, store)

	first, err := w.ResolveBatch(context.Background(), []int64{id}, "casey")
	require.NoError(t, err)
	require.Equal(t, 1, first.Succeeded)
	firstAt := store.records[id].ResolvedAt
	require.NotNil(t, firstAt)

	second, err := w.ResolveBatch(context.Background(), []int64{id}, "morgan")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 1, second.Failed)
	assert.Contains(t, second.Items[0].Error, "already resolved")

	assert.Equal(t, firstAt, store.records[id].ResolvedAt, "second resolve must not touch resolved_at")
	assert.Equal(t, "casey", store.records[id].ResolvedBy, "second resolve must not touch resolved_by")
}

func TestResolveBatch_SkipsNonMismatchAndMissing(t *testing.T) {
	store := newFakeStore()
	matchID := store.nextID
	store.nextID++
	store.records[matchID] = &models.AuditRecord{ID: matchID, Status: models.StatusMatch}

	w := NewWorkflow(&fakeDirectory{}, store)
	report, err := w.ResolveBatch(context.Background(), []int64{matchID, 9999}, "")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	assert.Contains(t, report.Items[0].Error, "not resolvable")
	assert.Contains(t, report.Items[1].Error, "not found")
}

func TestResolveBatch_DefaultResolver(t *testing.T) {
	store := newFakeStore()
	id := store.addMismatch(101, 1)
	w := NewWorkflow(&fakeDirectory{}, store)

	_, err := w.ResolveBatch(context.Background(), []int64{id}, "")
	require.NoError(t, err)
	assert.Equal(t, "Admin", store.records[id].ResolvedBy)
}
