package reminder

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	ListActiveMedicines(ctx context.Context) ([]Medicine, error)
	ListActiveRoutines(ctx context.Context) ([]Routine, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) ListActiveMedicines(ctx context.Context) ([]Medicine, error) {
	query := `
		SELECT m.id, m.user_id, u.username, u.mobile_number, m.name, m.dosage, m.time, m.frequency
		FROM medicines m
		JOIN users u ON u.id = m.user_id
		WHERE m.is_active = TRUE
		ORDER BY m.time, m.created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query medicines: %w", err)
	}
	defer rows.Close()

	var out []Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.MobileNumber, &m.Name, &m.Dosage, &m.Time, &m.Frequency); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListActiveRoutines(ctx context.Context) ([]Routine, error) {
	query := `
		SELECT rt.id, rt.user_id, u.username, u.mobile_number, rt.name, rt.description, rt.time, rt.frequency
		FROM routines rt
		JOIN users u ON u.id = rt.user_id
		WHERE rt.is_active = TRUE
		ORDER BY rt.time, rt.created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query routines: %w", err)
	}
	defer rows.Close()

	var out []Routine
	for rows.Next() {
		var rt Routine
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Username, &rt.MobileNumber, &rt.Name, &rt.Description, &rt.Time, &rt.Frequency); err != nil {
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
