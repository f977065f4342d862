package translation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medilingo/internal/gateway"
)

type Repository interface {
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Record, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Save(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	terms := rec.MedicalTerms
	if terms == nil {
		terms = []gateway.MedicalTerm{}
	}
	termsJSON, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("marshal medical terms: %w", err)
	}

	query := `
		INSERT INTO translation_history
			(id, user_id, original_text, detected_language, translated_text, target_language, medical_terms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.OriginalText, rec.DetectedLanguage, rec.TranslatedText, rec.TargetLanguage, termsJSON, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert translation: %w", err)
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Record, error) {
	query := `
		SELECT id, user_id, original_text, detected_language, translated_text, target_language, medical_terms, created_at
		FROM translation_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var termsJSON []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.OriginalText,
			&rec.DetectedLanguage,
			&rec.TranslatedText,
			&rec.TargetLanguage,
			&termsJSON,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		if len(termsJSON) > 0 {
			if err := json.Unmarshal(termsJSON, &rec.MedicalTerms); err != nil {
				return nil, fmt.Errorf("failed to unmarshal medical terms: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translation_history WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return n, nil
}

// Delete removes one record owned by userID. A record that does not exist
// or belongs to someone else is ErrNotFound.
func (r *postgresRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM translation_history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete translation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM translation_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear translations: %w", err)
	}
	return res.RowsAffected()
}
