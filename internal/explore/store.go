package explore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edumatch/platform-service/internal/model"
)

// ErrNotFound is returned when a post is missing or not published.
var ErrNotFound = errors.New("post not found")

// Store loads published post rows for the explore surface. Each tab has its
// own extension table; the application count is aggregated per post.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const programmeSelect = `
	SELECT p.id, p.title, p.description, p.deadline, p.created_at,
	       i.id, i.name, i.country, COALESCE(i.city, ''), COALESCE(i.logo_url, ''),
	       COALESCE(pd.degree_level, ''), COALESCE(pd.duration, ''),
	       COALESCE(pd.attendance, ''), COALESCE(pd.tuition_fee, ''),
	       (SELECT COUNT(*) FROM applications a WHERE a.post_id = p.id)
	FROM posts p
	JOIN institutions i ON i.id = p.institution_id
	JOIN programme_details pd ON pd.post_id = p.id
	WHERE p.post_type = 'programme' AND p.status = 'PUBLISHED'`

const scholarshipSelect = `
	SELECT p.id, p.title, p.description, p.deadline, p.created_at,
	       i.id, i.name, i.country, COALESCE(i.city, ''), COALESCE(i.logo_url, ''),
	       COALESCE(sd.degree_level, ''), COALESCE(sd.amount, ''), sd.essay_required,
	       (SELECT COUNT(*) FROM applications a WHERE a.post_id = p.id)
	FROM posts p
	JOIN institutions i ON i.id = p.institution_id
	JOIN scholarship_details sd ON sd.post_id = p.id
	WHERE p.post_type = 'scholarship' AND p.status = 'PUBLISHED'`

const researchSelect = `
	SELECT p.id, p.title, p.description, p.deadline, p.created_at,
	       i.id, i.name, i.country, COALESCE(i.city, ''), COALESCE(i.logo_url, ''),
	       COALESCE(rd.research_field, ''), COALESCE(rd.contract_type, ''),
	       COALESCE(rd.job_type, ''), COALESCE(rd.salary, ''),
	       (SELECT COUNT(*) FROM applications a WHERE a.post_id = p.id)
	FROM posts p
	JOIN institutions i ON i.id = p.institution_id
	JOIN research_details rd ON rd.post_id = p.id
	WHERE p.post_type = 'research' AND p.status = 'PUBLISHED'`

// LoadRows returns every published row for the given tab, newest first.
func (s *Store) LoadRows(ctx context.Context, tab Tab) ([]model.PostRow, error) {
	query, err := selectFor(tab)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", tab, err)
	}
	defer rows.Close()

	out := make([]model.PostRow, 0)
	for rows.Next() {
		r, err := scanRow(rows, tab)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", tab, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadRow returns one published row by post id.
func (s *Store) LoadRow(ctx context.Context, tab Tab, id string) (*model.PostRow, error) {
	query, err := selectFor(tab)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query+` AND p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load %s row: %w", tab, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	r, err := scanRow(rows, tab)
	if err != nil {
		return nil, fmt.Errorf("scan %s row: %w", tab, err)
	}
	return &r, nil
}

func selectFor(tab Tab) (string, error) {
	switch tab {
	case TabProgrammes:
		return programmeSelect, nil
	case TabScholarships:
		return scholarshipSelect, nil
	case TabResearch:
		return researchSelect, nil
	}
	return "", fmt.Errorf("unknown explore tab %q", tab)
}

func scanRow(rows pgx.Rows, tab Tab) (model.PostRow, error) {
	var r model.PostRow
	var err error
	switch tab {
	case TabProgrammes:
		r.PostType = "programme"
		err = rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Deadline, &r.CreatedAt,
			&r.InstitutionID, &r.InstitutionName, &r.Country, &r.City, &r.LogoURL,
			&r.DegreeLevel, &r.Duration, &r.Attendance, &r.TuitionFee,
			&r.ApplicationCount,
		)
	case TabScholarships:
		r.PostType = "scholarship"
		err = rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Deadline, &r.CreatedAt,
			&r.InstitutionID, &r.InstitutionName, &r.Country, &r.City, &r.LogoURL,
			&r.DegreeLevel, &r.Amount, &r.EssayRequired,
			&r.ApplicationCount,
		)
	case TabResearch:
		r.PostType = "research"
		err = rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Deadline, &r.CreatedAt,
			&r.InstitutionID, &r.InstitutionName, &r.Country, &r.City, &r.LogoURL,
			&r.ResearchField, &r.ContractType, &r.JobType, &r.Salary,
			&r.ApplicationCount,
		)
	}
	return r, err
}
