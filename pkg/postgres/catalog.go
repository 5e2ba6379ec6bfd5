package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// GetBranches retrieves all branches
func (d *DB) GetBranches(ctx context.Context) ([]model.Branch, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, color, population_score_properties
		FROM branches
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer rows.Close()

	var branches []model.Branch
	for rows.Next() {
		var b model.Branch
		var properties []byte
		if err := rows.Scan(&b.ID, &b.Name, &b.Color, &properties); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		if err := json.Unmarshal(properties, &b.PopulationScoreProperties); err != nil {
			return nil, fmt.Errorf("failed to decode score properties of branch %s: %w", b.ID, err)
		}
		branches = append(branches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branches: %w", err)
	}

	return branches, nil
}

// GetShiftTypes retrieves all shift types
func (d *DB) GetShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, description, slots_count, population_type, location, score_config
		FROM shift_types
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift types: %w", err)
	}
	defer rows.Close()

	var shiftTypes []model.ShiftType
	for rows.Next() {
		var st model.ShiftType
		var populationType, location string
		var scoreConfig []byte
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.SlotsCount, &populationType, &location, &scoreConfig); err != nil {
			return nil, fmt.Errorf("failed to scan shift type: %w", err)
		}
		st.PopulationType = model.PopulationType(populationType)
		st.Location = model.Location(location)
		if err := json.Unmarshal(scoreConfig, &st.ScoreConfig); err != nil {
			return nil, fmt.Errorf("failed to decode score config of shift type %s: %w", st.ID, err)
		}
		shiftTypes = append(shiftTypes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift types: %w", err)
	}

	return shiftTypes, nil
}

// GetScoreSchemas retrieves the score table schemas keyed by score type
func (d *DB) GetScoreSchemas(ctx context.Context) (model.ScoreSchemas, error) {
	rows, err := d.pool.Query(ctx, `SELECT score_type, columns FROM score_schemas`)
	if err != nil {
		return nil, fmt.Errorf("failed to query score schemas: %w", err)
	}
	defer rows.Close()

	schemas := make(model.ScoreSchemas)
	for rows.Next() {
		var scoreType string
		var columns []byte
		if err := rows.Scan(&scoreType, &columns); err != nil {
			return nil, fmt.Errorf("failed to scan score schema: %w", err)
		}
		var schema model.ScoreSchema
		if err := json.Unmarshal(columns, &schema); err != nil {
			return nil, fmt.Errorf("failed to decode score schema %s: %w", scoreType, err)
		}
		schemas[model.ScoreParamsType(scoreType)] = schema
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score schemas: %w", err)
	}

	return schemas, nil
}

// GetPopulationTypes retrieves the population types in their configured order
func (d *DB) GetPopulationTypes(ctx context.Context) ([]model.PopulationType, error) {
	rows, err := d.pool.Query(ctx, `SELECT name FROM population_types ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query population types: %w", err)
	}
	defer rows.Close()

	var populationTypes []model.PopulationType
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan population type: %w", err)
		}
		populationTypes = append(populationTypes, model.PopulationType(name))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating population types: %w", err)
	}

	return populationTypes, nil
}
