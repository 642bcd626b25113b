package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdocs/formportal/internal/models"
)

// fakeBackend is an in-memory Backend whose operations can be forced to fail,
// standing in for the remote tier.
type fakeBackend struct {
	mu        sync.Mutex
	drafts    map[string]*models.Draft
	fail      bool
	puts      int
	beforePut func(d *models.Draft)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{drafts: make(map[string]*models.Draft)}
}

func (f *fakeBackend) Put(d *models.Draft) error {
	if f.beforePut != nil {
		f.beforePut(d)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backend down")
	}
	f.puts++
	f.drafts[d.ID] = d.Clone()
	return nil
}

func (f *fakeBackend) Get(id string) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("backend down")
	}
	d, ok := f.drafts[id]
	if !ok {
		return nil, nil
	}
	return d.Clone(), nil
}

func (f *fakeBackend) ListByUser(userID string, limit int) ([]models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("backend down")
	}
	var out []models.Draft
	for _, d := range f.drafts {
		if d.UserID == userID {
			out = append(out, *d.Clone())
		}
	}
	return out, nil
}

func (f *fakeBackend) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backend down")
	}
	delete(f.drafts, id)
	return nil
}

func draftFor(id, userID string, modified int64) *models.Draft {
	return &models.Draft{
		ID:             id,
		UserID:         userID,
		FormID:         "form-7",
		Data:           map[string]any{"name": "Ram"},
		Status:         models.DraftStatusDraft,
		CreatedAt:      modified,
		LastModifiedAt: modified,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache()
	d := draftFor("d1", "u1", 100)
	require.NoError(t, c.Put(d))

	got, err := c.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	// The cache holds a copy, not the caller's map.
	d.Data["name"] = "Sita"
	again, err := c.Get("d1")
	require.NoError(t, err)
	assert.Equal(t, "Ram", again.Data["name"])

	require.NoError(t, c.Delete("d1"))
	gone, err := c.Get("d1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTieredPutMirrorsToRemote(t *testing.T) {
	remote := newFakeBackend()
	tiered := NewTiered(NewCache(), remote)

	require.NoError(t, tiered.Put(draftFor("d1", "u1", 100)))
	tiered.Flush()

	got, err := remote.Get("d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
}

// A delayed older mirror must not land after a newer one: even when the
// first mirror stalls until after a second Put, the remote tier ends up with
// the latest write, never a regressed copy.
func TestTieredMirrorsOrderedPerDraft(t *testing.T) {
	remote := newFakeBackend()
	release := make(chan struct{})
	remote.beforePut = func(d *models.Draft) {
		// Stall only the older write's mirror.
		if d.LastModifiedAt == 100 {
			<-release
		}
	}
	tiered := NewTiered(NewCache(), remote)

	older := draftFor("d1", "u1", 100)
	older.Data = map[string]any{"name": "old"}
	require.NoError(t, tiered.Put(older))

	newer := draftFor("d1", "u1", 200)
	newer.Data = map[string]any{"name": "new"}
	require.NoError(t, tiered.Put(newer))

	close(release)
	tiered.Flush()

	got, err := remote.Get("d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(200), got.LastModifiedAt)
	assert.Equal(t, "new", got.Data["name"])
}

func TestTieredSwallowsMirrorFailure(t *testing.T) {
	remote := newFakeBackend()
	remote.fail = true
	tiered := NewTiered(NewCache(), remote)

	// Remote down: the autosave must still succeed.
	require.NoError(t, tiered.Put(draftFor("d1", "u1", 100)))
	tiered.Flush()

	got, err := tiered.Get("d1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestTieredGetFallsBackToRemote(t *testing.T) {
	remote := newFakeBackend()
	local := NewCache()
	tiered := NewTiered(local, remote)

	// Draft exists only remotely, as after a process restart.
	require.NoError(t, remote.Put(draftFor("d1", "u1", 100)))

	got, err := tiered.Get("d1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// The remote hit re-warmed the cache.
	warmed, err := local.Get("d1")
	require.NoError(t, err)
	require.NotNil(t, warmed)
}

func TestTieredGetAbsentEverywhere(t *testing.T) {
	tiered := NewTiered(NewCache(), newFakeBackend())
	got, err := tiered.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTieredPutBothTiersDown(t *testing.T) {
	remote := newFakeBackend()
	remote.fail = true
	local := newFakeBackend()
	local.fail = true
	tiered := NewTiered(local, remote)

	err := tiered.Put(draftFor("d1", "u1", 100))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestTieredLocalDownRemoteTakesWrite(t *testing.T) {
	remote := newFakeBackend()
	local := newFakeBackend()
	local.fail = true
	tiered := NewTiered(local, remote)

	require.NoError(t, tiered.Put(draftFor("d1", "u1", 100)))
	got, err := remote.Get("d1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestTieredListByUserSortedAndCapped(t *testing.T) {
	tiered := NewTiered(NewCache(), newFakeBackend())

	for i := 0; i < MaxListResults+5; i++ {
		d := draftFor(fmt.Sprintf("d%02d", i), "u1", int64(i))
		require.NoError(t, tiered.Put(d))
	}
	require.NoError(t, tiered.Put(draftFor("other", "u2", 999)))
	tiered.Flush()

	drafts, err := tiered.ListByUser("u1", 0)
	require.NoError(t, err)
	require.Len(t, drafts, MaxListResults)
	for i := 1; i < len(drafts); i++ {
		assert.GreaterOrEqual(t, drafts[i-1].LastModifiedAt, drafts[i].LastModifiedAt)
	}
	for _, d := range drafts {
		assert.Equal(t, "u1", d.UserID)
	}
}

func TestTieredDelete(t *testing.T) {
	remote := newFakeBackend()
	tiered := NewTiered(NewCache(), remote)

	require.NoError(t, tiered.Put(draftFor("d1", "u1", 100)))
	tiered.Flush()
	require.NoError(t, tiered.Delete("d1"))
	tiered.Flush()

	got, err := tiered.Get("d1")
	require.NoError(t, err)
	assert.Nil(t, got)
	gotRemote, err := remote.Get("d1")
	require.NoError(t, err)
	assert.Nil(t, gotRemote)
}
