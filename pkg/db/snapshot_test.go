package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

type fakeSource struct {
	mu        sync.Mutex
	guards    []model.Guard
	shifts    []model.Shift
	shiftsErr error
	calls     map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(map[string]int)}
}

func (f *fakeSource) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeSource) GetGuards(ctx context.Context) ([]model.Guard, error) {
	f.count("guards")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Guard{}, f.guards...), nil
}

func (f *fakeSource) GetShifts(ctx context.Context) ([]model.Shift, error) {
	f.count("shifts")
	if f.shiftsErr != nil {
		return nil, f.shiftsErr
	}
	return append([]model.Shift{}, f.shifts...), nil
}

func (f *fakeSource) GetBranches(ctx context.Context) ([]model.Branch, error) {
	f.count("branches")
	return []model.Branch{{ID: "B1", Name: "North"}}, nil
}

func (f *fakeSource) GetShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	f.count("shift_types")
	return []model.ShiftType{{ID: "st-1", SlotsCount: 2}}, nil
}

func (f *fakeSource) GetScoreSchemas(ctx context.Context) (model.ScoreSchemas, error) {
	f.count("score_schemas")
	return model.ScoreSchemas{model.ScoreParamsHoger: {{ColumnID: "num_holidays"}}}, nil
}

func (f *fakeSource) GetPopulationTypes(ctx context.Context) ([]model.PopulationType, error) {
	f.count("population_types")
	return []model.PopulationType{model.PopulationHoger}, nil
}

func (f *fakeSource) GetCurrentUser(ctx context.Context) (*model.Guard, error) {
	f.count("current_user")
	return &model.Guard{ID: "me", Name: "Me"}, nil
}

func TestSnapshot_RefreshAll(t *testing.T) {
	source := newFakeSource()
	source.guards = []model.Guard{{ID: "g1"}}
	snapshot := NewSnapshot(source, zap.NewNop())

	require.NoError(t, snapshot.Refresh(context.Background()))

	assert.Equal(t, "me", snapshot.CurrentUser().ID)
	assert.Len(t, snapshot.Guards(), 1)
	assert.Len(t, snapshot.Branches(), 1)
	assert.Len(t, snapshot.ShiftTypes(), 1)
	assert.Len(t, snapshot.ScoreSchemas(), 1)
	assert.Equal(t, []model.PopulationType{model.PopulationHoger}, snapshot.PopulationTypes())
	for _, c := range AllCollections {
		assert.Equal(t, 1, source.calls[string(c)], c)
	}
}

func TestSnapshot_RefreshReplacesWholesale(t *testing.T) {
	source := newFakeSource()
	source.guards = []model.Guard{{ID: "g1"}, {ID: "g2"}}
	snapshot := NewSnapshot(source, zap.NewNop())
	require.NoError(t, snapshot.Refresh(context.Background(), CollectionGuards))

	source.guards = []model.Guard{{ID: "g3"}}
	require.NoError(t, snapshot.Refresh(context.Background(), CollectionGuards))

	guards := snapshot.Guards()
	require.Len(t, guards, 1)
	assert.Equal(t, "g3", guards[0].ID)
	assert.Zero(t, source.calls["shifts"])
}

func TestSnapshot_AccessorsReturnCopies(t *testing.T) {
	source := newFakeSource()
	source.guards = []model.Guard{{ID: "g1", Name: "Dana"}}
	snapshot := NewSnapshot(source, zap.NewNop())
	require.NoError(t, snapshot.Refresh(context.Background(), CollectionGuards, CollectionCurrentUser))

	guards := snapshot.Guards()
	guards[0].Name = "changed"
	snapshot.CurrentUser().Name = "changed"

	assert.Equal(t, "Dana", snapshot.Guards()[0].Name)
	assert.Equal(t, "Me", snapshot.CurrentUser().Name)
}

func TestSnapshot_Lookups(t *testing.T) {
	source := newFakeSource()
	source.guards = []model.Guard{{ID: "g1"}}
	source.shifts = []model.Shift{{ID: "s1"}}
	snapshot := NewSnapshot(source, zap.NewNop())
	require.NoError(t, snapshot.Refresh(context.Background()))

	g, err := snapshot.Guard("g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)

	_, err = snapshot.Guard("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = snapshot.Shift("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := snapshot.ShiftType("st-1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.SlotsCount)
}

func TestSnapshot_EmptyBeforeRefresh(t *testing.T) {
	snapshot := NewSnapshot(newFakeSource(), zap.NewNop())
	assert.Nil(t, snapshot.CurrentUser())
	assert.Empty(t, snapshot.Guards())
	assert.Empty(t, snapshot.ScoreSchemas())
}

func TestSnapshot_RefreshError(t *testing.T) {
	source := newFakeSource()
	source.shiftsErr = errors.New("backend down")
	snapshot := NewSnapshot(source, zap.NewNop())

	err := snapshot.Refresh(context.Background(), CollectionGuards, CollectionShifts, CollectionBranches)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "shifts")
	assert.Equal(t, 1, source.calls["guards"])
	assert.Zero(t, source.calls["branches"])
}

func TestSnapshot_UnknownCollection(t *testing.T) {
	snapshot := NewSnapshot(newFakeSource(), zap.NewNop())
	assert.Error(t, snapshot.Refresh(context.Background(), Collection("nope")))
}

func TestSnapshot_ConcurrentRefresh(t *testing.T) {
	source := newFakeSource()
	source.guards = []model.Guard{{ID: "g1"}}
	snapshot := NewSnapshot(source, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, snapshot.Refresh(context.Background(), CollectionGuards))
			_ = snapshot.Guards()
		}()
	}
	wg.Wait()

	assert.Len(t, snapshot.Guards(), 1)
}
