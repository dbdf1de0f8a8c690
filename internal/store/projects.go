package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Project is one portfolio entry and the carousel's display item.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Link        string    `json:"link,omitempty"`
	DetailURL   string    `json:"detail_url,omitempty"`
	Tags        []string  `json:"tags"`
	SortOrder   int       `json:"sort_order"`
	Clicks      int       `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key identifies the project across carousel list replacements.
func (p Project) Key() string {
	return strconv.FormatInt(p.ID, 10)
}

func (p *Project) normalize() error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Link = strings.TrimSpace(p.Link)
	p.DetailURL = strings.TrimSpace(p.DetailURL)
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidProject)
	}
	tags := p.Tags[:0:0]
	for _, tag := range p.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	p.Tags = tags
	return nil
}

// ListProjects returns every project ordered for display.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, image_url, link, detail_url, sort_order, clicks, created_at
		FROM projects
		ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	tags, err := s.allTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Tags = tags[projects[i].ID]
	}
	return projects, nil
}

// GetProject returns one project or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, image_url, link, detail_url, sort_order, clicks, created_at
		FROM projects WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	p.Tags, err = s.projectTags(ctx, id)
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// CreateProject inserts p and returns it with ID and CreatedAt set.
func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	if err := p.normalize(); err != nil {
		return Project{}, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO projects (title, description, image_url, link, detail_url, sort_order, clicks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`, p.Title, p.Description, p.ImageURL, p.Link, p.DetailURL, p.SortOrder, formatTime(p.CreatedAt))
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	if err := writeTags(ctx, tx, p.ID, p.Tags); err != nil {
		return Project{}, err
	}
	if err := tx.Commit(); err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	p.Clicks = 0
	p.CreatedAt = parseTime(formatTime(p.CreatedAt))
	return p, nil
}

// UpdateProject overwrites the editable fields of an existing project.
func (s *Store) UpdateProject(ctx context.Context, p Project) error {
	if err := p.normalize(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, image_url = ?, link = ?, detail_url = ?, sort_order = ?
		WHERE id = ?
	`, p.Title, p.Description, p.ImageURL, p.Link, p.DetailURL, p.SortOrder, p.ID)
	if err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("update project %d tags: %w", p.ID, err)
	}
	if err := writeTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteProject removes a project and its tags.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("delete project %d tags: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// RecordClick counts one click-through to the project's external link.
func (s *Store) RecordClick(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET clicks = clicks + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("record click %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedProjects inserts seeds only when the table is empty. It reports how many
// projects were inserted.
func (s *Store) SeedProjects(ctx context.Context, seeds []Project) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("seed projects: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for i, p := range seeds {
		if p.SortOrder == 0 {
			p.SortOrder = i + 1
		}
		if _, err := s.CreateProject(ctx, p); err != nil {
			return i, fmt.Errorf("seed project %q: %w", p.Title, err)
		}
	}
	return len(seeds), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var created string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Link, &p.DetailURL, &p.SortOrder, &p.Clicks, &created)
	if err != nil {
		return Project{}, err
	}
	p.CreatedAt = parseTime(created)
	return p, nil
}

func writeTags(ctx context.Context, tx *sql.Tx, id int64, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO project_tags (project_id, position, tag) VALUES (?, ?, ?)`, id, i, tag); err != nil {
			return fmt.Errorf("write tags for project %d: %w", id, err)
		}
	}
	return nil
}

func (s *Store) projectTags(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM project_tags WHERE project_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("project %d tags: %w", id, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("project %d tags: %w", id, err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) allTags(ctx context.Context) (map[int64][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, tag FROM project_tags ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	return tags, rows.Err()
}
