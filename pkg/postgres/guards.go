package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/db"
)

const guardColumns = `id, name, username, branch, population_types, roles, population_settings`

func scanGuard(row pgx.Row) (model.Guard, error) {
	var g model.Guard
	var branch *string
	var populationTypes []string
	var settings []byte
	if err := row.Scan(&g.ID, &g.Name, &g.Username, &branch, &populationTypes, &g.Roles, &settings); err != nil {
		return g, err
	}
	if branch != nil {
		g.Branch = *branch
	}
	for _, pt := range populationTypes {
		g.PopulationTypes = append(g.PopulationTypes, model.PopulationType(pt))
	}
	if err := json.Unmarshal(settings, &g.PopulationSettings); err != nil {
		return g, fmt.Errorf("failed to decode population settings of guard %s: %w", g.ID, err)
	}
	return g, nil
}

// GetGuards retrieves all guards
func (d *DB) GetGuards(ctx context.Context) ([]model.Guard, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+guardColumns+` FROM guards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query guards: %w", err)
	}
	defer rows.Close()

	var guards []model.Guard
	for rows.Next() {
		g, err := scanGuard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guard: %w", err)
		}
		guards = append(guards, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guards: %w", err)
	}

	return guards, nil
}

// GetCurrentUser retrieves the guard whose username the DB was opened with
func (d *DB) GetCurrentUser(ctx context.Context) (*model.Guard, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+guardColumns+` FROM guards WHERE username = $1`, d.username)
	g, err := scanGuard(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("current user %s: %w", d.username, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &g, nil
}

// UpdateMyRestrictions replaces the current user's restrictions for a population type
func (d *DB) UpdateMyRestrictions(ctx context.Context, populationType model.PopulationType, restrictions []model.Restriction) error {
	user, err := d.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	return d.UpdateRestrictions(ctx, user.ID, populationType, restrictions)
}

// UpdateRestrictions replaces a guard's restrictions for a population type
func (d *DB) UpdateRestrictions(ctx context.Context, guardID string, populationType model.PopulationType, restrictions []model.Restriction) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var settings []byte
	err = tx.QueryRow(ctx, `SELECT population_settings FROM guards WHERE id = $1 FOR UPDATE`, guardID).Scan(&settings)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("guard %s: %w", guardID, db.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get population settings: %w", err)
	}

	updated, err := replaceRestrictions(settings, populationType, restrictions)
	if err != nil {
		return fmt.Errorf("guard %s: %w", guardID, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE guards SET population_settings = $2 WHERE id = $1`, guardID, updated); err != nil {
		return fmt.Errorf("failed to update restrictions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit restrictions: %w", err)
	}
	return nil
}

// replaceRestrictions swaps the restrictions of one population settings entry in the stored JSON
func replaceRestrictions(settingsJSON []byte, populationType model.PopulationType, restrictions []model.Restriction) ([]byte, error) {
	var settings []model.PopulationSettings
	if err := json.Unmarshal(settingsJSON, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode population settings: %w", err)
	}

	found := false
	for i := range settings {
		if settings[i].PopulationType == populationType {
			settings[i].Restrictions = append([]model.Restriction{}, restrictions...)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("not in %q population: %w", populationType, db.ErrNotFound)
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode population settings: %w", err)
	}
	return data, nil
}
