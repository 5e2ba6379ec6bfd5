package db

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// Collection names one cached backend collection
type Collection string

const (
	CollectionGuards          Collection = "guards"
	CollectionShifts          Collection = "shifts"
	CollectionBranches        Collection = "branches"
	CollectionShiftTypes      Collection = "shift_types"
	CollectionScoreSchemas    Collection = "score_schemas"
	CollectionPopulationTypes Collection = "population_types"
	CollectionCurrentUser     Collection = "current_user"
)

// AllCollections lists every collection in refresh order
var AllCollections = []Collection{
	CollectionCurrentUser,
	CollectionGuards,
	CollectionShifts,
	CollectionBranches,
	CollectionShiftTypes,
	CollectionScoreSchemas,
	CollectionPopulationTypes,
}

// Snapshot is the in-memory copy of the backend collections for one session.
// Refreshing a collection replaces it wholesale; accessors return copies.
type Snapshot struct {
	source Source
	logger *zap.Logger

	mu              sync.RWMutex
	currentUser     *model.Guard
	guards          []model.Guard
	shifts          []model.Shift
	branches        []model.Branch
	shiftTypes      []model.ShiftType
	scoreSchemas    model.ScoreSchemas
	populationTypes []model.PopulationType
}

// NewSnapshot creates an empty snapshot backed by source
func NewSnapshot(source Source, logger *zap.Logger) *Snapshot {
	return &Snapshot{source: source, logger: logger}
}

// Refresh fetches and replaces the given collections, or all of them if none are given.
// It stops at the first failing fetch; collections refreshed before it keep their new value.
func (s *Snapshot) Refresh(ctx context.Context, collections ...Collection) error {
	if len(collections) == 0 {
		collections = AllCollections
	}
	for _, c := range collections {
		if err := s.refresh(ctx, c); err != nil {
			return fmt.Errorf("failed to refresh %s: %w", c, err)
		}
		s.logger.Debug("Refreshed collection", zap.String("collection", string(c)))
	}
	return nil
}

func (s *Snapshot) refresh(ctx context.Context, c Collection) error {
	switch c {
	case CollectionCurrentUser:
		user, err := s.source.GetCurrentUser(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.currentUser = user
		s.mu.Unlock()
	case CollectionGuards:
		guards, err := s.source.GetGuards(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.guards = guards
		s.mu.Unlock()
	case CollectionShifts:
		shifts, err := s.source.GetShifts(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.shifts = shifts
		s.mu.Unlock()
	case CollectionBranches:
		branches, err := s.source.GetBranches(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.branches = branches
		s.mu.Unlock()
	case CollectionShiftTypes:
		shiftTypes, err := s.source.GetShiftTypes(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.shiftTypes = shiftTypes
		s.mu.Unlock()
	case CollectionScoreSchemas:
		schemas, err := s.source.GetScoreSchemas(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.scoreSchemas = schemas
		s.mu.Unlock()
	case CollectionPopulationTypes:
		populationTypes, err := s.source.GetPopulationTypes(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.populationTypes = populationTypes
		s.mu.Unlock()
	default:
		return fmt.Errorf("unknown collection %q", c)
	}
	return nil
}

// CurrentUser returns a copy of the logged-in guard, or nil if it has not been fetched
func (s *Snapshot) CurrentUser() *model.Guard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	return &user
}

func (s *Snapshot) Guards() []model.Guard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.guards)
}

// Guard returns the guard with the given id, or ErrNotFound
func (s *Snapshot) Guard(id string) (*model.Guard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.guards {
		if s.guards[i].ID == id {
			g := s.guards[i]
			return &g, nil
		}
	}
	return nil, fmt.Errorf("guard %s: %w", id, ErrNotFound)
}

func (s *Snapshot) Shifts() []model.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.shifts)
}

// Shift returns the shift with the given id, or ErrNotFound
func (s *Snapshot) Shift(id string) (*model.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.shifts {
		if s.shifts[i].ID == id {
			shift := s.shifts[i]
			return &shift, nil
		}
	}
	return nil, fmt.Errorf("shift %s: %w", id, ErrNotFound)
}

func (s *Snapshot) Branches() []model.Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.branches)
}

func (s *Snapshot) ShiftTypes() []model.ShiftType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.shiftTypes)
}

// ShiftType returns the shift type with the given id, or ErrNotFound
func (s *Snapshot) ShiftType(id string) (*model.ShiftType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.shiftTypes {
		if s.shiftTypes[i].ID == id {
			st := s.shiftTypes[i]
			return &st, nil
		}
	}
	return nil, fmt.Errorf("shift type %s: %w", id, ErrNotFound)
}

func (s *Snapshot) ScoreSchemas() model.ScoreSchemas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scoreSchemas == nil {
		return nil
	}
	return maps.Clone(s.scoreSchemas)
}

func (s *Snapshot) PopulationTypes() []model.PopulationType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.populationTypes)
}
