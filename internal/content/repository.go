package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads portfolio content records.
type Repository interface {
	PersonalInfo(ctx context.Context) (*PersonalInfo, error)
	ListExperience(ctx context.Context) ([]ExperienceEntry, error)
	ListBlurbs(ctx context.Context) ([]BlurbEntry, error)
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository wraps an existing connection pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// PersonalInfo returns the site owner's identity block. The portfolio
// stores exactly one row; missing data is a configuration error.
func (r *PGRepository) PersonalInfo(ctx context.Context) (*PersonalInfo, error) {
	var info PersonalInfo
	err := r.pool.QueryRow(ctx,
		`SELECT name, email, COALESCE(phone, ''), COALESCE(location, ''), COALESCE(website, '')
		 FROM personal_info
		 LIMIT 1`,
	).Scan(&info.Name, &info.Email, &info.Phone, &info.Location, &info.Website)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("personal info is not configured")
		}
		return nil, fmt.Errorf("failed to load personal info: %w", err)
	}
	return &info, nil
}

// ListExperience returns all experience entries, newest first.
func (r *PGRepository) ListExperience(ctx context.Context) ([]ExperienceEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company, role, COALESCE(location, ''), start_date, end_date,
		        COALESCE(summary, ''), technologies
		 FROM experience_entries
		 ORDER BY start_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experience entries: %w", err)
	}
	defer rows.Close()

	var entries []ExperienceEntry
	for rows.Next() {
		var entry ExperienceEntry
		var technologiesJSON []byte
		if err := rows.Scan(&entry.ID, &entry.Company, &entry.Role, &entry.Location,
			&entry.StartDate, &entry.EndDate, &entry.Summary, &technologiesJSON); err != nil {
			return nil, err
		}
		if technologiesJSON != nil {
			_ = json.Unmarshal(technologiesJSON, &entry.Technologies)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListBlurbs returns all blurbs in stored order.
func (r *PGRepository) ListBlurbs(ctx context.Context) ([]BlurbEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, experience_id, COALESCE(title, ''), accomplishments
		 FROM blurbs
		 ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blurbs: %w", err)
	}
	defer rows.Close()

	var blurbs []BlurbEntry
	for rows.Next() {
		var blurb BlurbEntry
		var accomplishmentsJSON []byte
		if err := rows.Scan(&blurb.ID, &blurb.ExperienceID, &blurb.Title, &accomplishmentsJSON); err != nil {
			return nil, err
		}
		if accomplishmentsJSON != nil {
			_ = json.Unmarshal(accomplishmentsJSON, &blurb.Accomplishments)
		}
		blurbs = append(blurbs, blurb)
	}
	return blurbs, rows.Err()
}
