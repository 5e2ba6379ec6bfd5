package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// GetShifts retrieves all shifts ordered by date, shift type and round
func (d *DB) GetShifts(ctx context.Context) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, date, branch, shift_type, "order", assigned_user_id, population_type,
		       is_holiday, num_days, regular_score, weekend_score, is_custom_score
		FROM shifts
		ORDER BY date, shift_type, "order"
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		var date time.Time
		var branch, assignedUserID *string
		var populationType string
		if err := rows.Scan(&s.ID, &date, &branch, &s.ShiftType, &s.Order, &assignedUserID, &populationType,
			&s.IsHoliday, &s.NumDays, &s.Score.RegularScore, &s.Score.WeekendScore, &s.IsCustomScore); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.Date = model.NewDate(date)
		s.PopulationType = model.PopulationType(populationType)
		if branch != nil {
			s.Branch = *branch
		}
		if assignedUserID != nil {
			s.AssignedUserID = *assignedUserID
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// CreateShift inserts a shift under a newly allocated id and returns the stored shift
func (d *DB) CreateShift(ctx context.Context, shift *model.Shift) (*model.Shift, error) {
	created := *shift
	created.ID = uuid.NewString()

	_, err := d.pool.Exec(ctx, `
		INSERT INTO shifts (id, date, branch, shift_type, "order", assigned_user_id, population_type,
		                    is_holiday, num_days, regular_score, weekend_score, is_custom_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, created.ID, created.Date.Time, nullable(created.Branch), created.ShiftType, created.Order,
		nullable(created.AssignedUserID), string(created.PopulationType), created.IsHoliday, created.NumDays,
		created.Score.RegularScore, created.Score.WeekendScore, created.IsCustomScore)
	if err != nil {
		return nil, fmt.Errorf("failed to insert shift: %w", err)
	}
	return &created, nil
}

// AssignShift sets the assigned guard of a shift
func (d *DB) AssignShift(ctx context.Context, shiftID, guardID string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE shifts SET assigned_user_id = $2 WHERE id = $1`, shiftID, guardID)
	if err != nil {
		return fmt.Errorf("failed to assign shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %s: %w", shiftID, db.ErrNotFound)
	}
	return nil
}

// nullable maps an empty string to SQL NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
