package taskstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunari/todoro/internal/domain"
)

// mockMedium is a test double for domain.Medium with injectable failures.
type mockMedium struct {
	values    map[string]string
	setErr    error
	getErr    error
	removeErr error
}

func newMockMedium() *mockMedium {
	return &mockMedium{values: make(map[string]string)}
}

func (m *mockMedium) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockMedium) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockMedium) Remove(_ context.Context, key string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.values, key)
	return nil
}

const testKey = "todoro.tasks"

func newTestStore(t *testing.T) (*Store, *mockMedium) {
	t.Helper()
	m := newMockMedium()
	s := New(context.Background(), m, testKey, nil)
	require.True(t, s.Status(context.Background()).Available)
	return s, m
}

func testTasks() []domain.Task {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Task{
		{ID: "t1", Text: "first", Completed: false, CreatedAt: created},
		{ID: "t2", Text: "second", Completed: true, CreatedAt: created.Add(time.Minute)},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	// Setup
	s, _ := newTestStore(t)
	ctx := context.Background()
	tasks := testTasks()

	// Execute
	require.NoError(t, s.Save(ctx, tasks))
	rep := s.Load(ctx)

	// Assert
	assert.True(t, rep.Clean())
	require.Len(t, rep.Tasks, 2)
	assert.Equal(t, tasks, rep.Tasks)
}

func TestStore_LoadEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	rep := s.Load(context.Background())

	assert.True(t, rep.Clean())
	assert.Empty(t, rep.Tasks)
	assert.NotNil(t, rep.Tasks)
}

func TestStore_SaveEmptySequence(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, nil))
	assert.Equal(t, "[]", m.values[testKey])

	rep := s.Load(ctx)
	assert.True(t, rep.Clean())
	assert.Empty(t, rep.Tasks)
}

func TestStore_SaveRejectsMalformedTask(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	err := s.Save(ctx, []domain.Task{{ID: "", Text: "no id", CreatedAt: time.Now()}})

	assert.ErrorIs(t, err, domain.ErrInvalidTask)
	// Nothing was written, not even partially.
	_, ok := m.values[testKey]
	assert.False(t, ok)
}

func TestStore_SaveFullReplace(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tasks := testTasks()

	require.NoError(t, s.Save(ctx, tasks))
	require.NoError(t, s.Save(ctx, tasks[:1]))

	rep := s.Load(ctx)
	require.Len(t, rep.Tasks, 1)
	assert.Equal(t, "t1", rep.Tasks[0].ID)
}

func TestStore_SaveFailureKeepsFallbackCopy(t *testing.T) {
	// Setup
	s, m := newTestStore(t)
	ctx := context.Background()
	m.setErr = errors.New("disk on fire")

	// Execute
	err := s.Save(ctx, testTasks())

	// Assert: the error is reported but the data survived in memory.
	require.Error(t, err)
	assert.Equal(t, 2, s.Status(ctx).FallbackCount)
}

func TestStore_SaveQuotaErrorIsDistinguishable(t *testing.T) {
	s, m := newTestStore(t)
	m.setErr = domain.ErrMediumFull

	err := s.Save(context.Background(), testTasks())

	assert.ErrorIs(t, err, domain.ErrMediumFull)
}

func TestStore_UnavailableMediumUsesFallback(t *testing.T) {
	// Setup: the probe fails, pinning the store to the fallback buffer.
	m := newMockMedium()
	m.setErr = errors.New("medium down")
	s := New(context.Background(), m, testKey, nil)
	ctx := context.Background()

	require.False(t, s.Status(ctx).Available)

	// A save to the fallback buffer succeeds.
	require.NoError(t, s.Save(ctx, testTasks()))
	assert.Equal(t, 2, s.Status(ctx).FallbackCount)

	// Loading serves the fallback data, flagged as degraded.
	rep := s.Load(ctx)
	assert.True(t, rep.Degraded)
	require.Len(t, rep.Tasks, 2)
	assert.Equal(t, testTasks(), rep.Tasks)
}

func TestStore_CorruptionIsolatedPerRecord(t *testing.T) {
	// Setup: one well-formed record among broken ones.
	s, m := newTestStore(t)
	m.values[testKey] = `[
		{"id":"good","text":"survives","completed":false,"createdAt":"2024-01-01T09:00:00Z"},
		{"id":"bad-time","text":"x","completed":false,"createdAt":"not-a-date"},
		{"id":"bad-text","text":42,"completed":false,"createdAt":"2024-01-01T09:00:00Z"},
		{"text":"no id","completed":false,"createdAt":"2024-01-01T09:00:00Z"},
		"not even an object"
	]`

	// Execute
	rep := s.Load(context.Background())

	// Assert
	require.Len(t, rep.Tasks, 1)
	assert.Equal(t, "good", rep.Tasks[0].ID)
	assert.Equal(t, 4, rep.Dropped)
	assert.False(t, rep.Degraded)
}

func TestStore_ReadFailureServesFallback(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testTasks()))
	m.getErr = errors.New("read error")

	rep := s.Load(ctx)

	// Nothing was parked in the fallback (the save succeeded), so the
	// degraded load comes back empty rather than failing.
	assert.True(t, rep.Degraded)
	assert.Empty(t, rep.Tasks)
}

func TestStore_TopLevelCorruptionTreatedAsEmpty(t *testing.T) {
	s, m := newTestStore(t)
	m.values[testKey] = `{"this is": "not an array"`

	rep := s.Load(context.Background())

	assert.Empty(t, rep.Tasks)
	assert.True(t, rep.Degraded)
}

func TestStore_LoadDropsValidatorRejectedText(t *testing.T) {
	s, m := newTestStore(t)
	m.values[testKey] = `[
		{"id":"a","text":"<script>alert(1)</script>","completed":false,"createdAt":"2024-01-01T09:00:00Z"},
		{"id":"b","text":"   ","completed":false,"createdAt":"2024-01-01T09:00:00Z"},
		{"id":"c","text":"fine","completed":true,"createdAt":"2024-01-01T09:00:00Z"}
	]`

	rep := s.Load(context.Background())

	require.Len(t, rep.Tasks, 1)
	assert.Equal(t, "c", rep.Tasks[0].ID)
	assert.Equal(t, 2, rep.Dropped)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testTasks()))

	require.NoError(t, s.Clear(ctx))
	_, ok := m.values[testKey]
	assert.False(t, ok)

	// Clearing again is not an error.
	require.NoError(t, s.Clear(ctx))

	rep := s.Load(ctx)
	assert.Empty(t, rep.Tasks)
}

func TestStore_ClearFailure(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testTasks()))
	m.removeErr = errors.New("cannot remove")

	err := s.Clear(ctx)

	require.Error(t, err)
	// The stored data is still there.
	rep := s.Load(ctx)
	assert.Len(t, rep.Tasks, 2)
}

func TestStore_Status(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	st := s.Status(ctx)
	assert.True(t, st.Available)
	assert.False(t, st.HasStoredData)
	assert.Zero(t, st.StoredBytes)
	assert.Zero(t, st.FallbackCount)

	require.NoError(t, s.Save(ctx, testTasks()))

	st = s.Status(ctx)
	assert.True(t, st.HasStoredData)
	assert.Positive(t, st.StoredBytes)
}

func TestStore_CheckIntegrity(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testTasks()))
	assert.Empty(t, s.CheckIntegrity(ctx))

	m.values[testKey] = `[{"id":"a","text":"oops","createdAt":"bad"}]`
	violations := s.CheckIntegrity(ctx)
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[0], "dropped")
}

func TestStore_ReprobeRecoversAvailability(t *testing.T) {
	// Setup: start with a dead medium.
	m := newMockMedium()
	m.setErr = errors.New("medium down")
	s := New(context.Background(), m, testKey, nil)
	ctx := context.Background()
	require.False(t, s.Status(ctx).Available)
	require.NoError(t, s.Save(ctx, testTasks()))

	// Execute: the medium comes back.
	m.setErr = nil
	ok := s.Reprobe(ctx)

	// Assert
	assert.True(t, ok)
	assert.True(t, s.Status(ctx).Available)

	// The next save reaches the medium again.
	require.NoError(t, s.Save(ctx, testTasks()))
	_, stored := m.values[testKey]
	assert.True(t, stored)
}
