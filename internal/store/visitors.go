package store

import (
	"context"
	"fmt"
	"time"
)

// Visitor is one tracked page view. The IP is stored hashed.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Country   string    `json:"country,omitempty"`
}

type ProjectStat struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Link   string `json:"link"`
	Clicks int    `json:"clicks"`
}

type AdminStats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	TotalProjects    int64         `json:"total_projects"`
	TotalClicks      int64         `json:"total_clicks"`
	TopProjects      []ProjectStat `json:"top_projects"`
	RecentVisitors   []Visitor     `json:"recent_visitors"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
}

func (s *Store) RecordVisit(ctx context.Context, v Visitor) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp, country)
		VALUES (?, ?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp), v.Country)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecentVisitors returns the newest visits first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp, COALESCE(country, '')
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var visitors []Visitor
	for rows.Next() {
		var v Visitor
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts, &v.Country); err != nil {
			return nil, fmt.Errorf("recent visitors: %w", err)
		}
		v.Timestamp = parseTime(ts)
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// CleanupVisitors deletes visits older than before and reports how many went.
func (s *Store) CleanupVisitors(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	return res.RowsAffected()
}

// TopProjects ranks projects by click-throughs.
func (s *Store) TopProjects(ctx context.Context, limit int) ([]ProjectStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, link, clicks
		FROM projects
		ORDER BY clicks DESC, sort_order ASC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	defer rows.Close()

	var stats []ProjectStat
	for rows.Next() {
		var st ProjectStat
		if err := rows.Scan(&st.ID, &st.Title, &st.Link, &st.Clicks); err != nil {
			return nil, fmt.Errorf("top projects: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Stats gathers the admin dashboard numbers as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*AdminStats, error) {
	stats := &AdminStats{}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		query string
		args  []any
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, nil, &stats.TotalVisitors},
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM projects`, nil, &stats.TotalProjects},
		{`SELECT COALESCE(SUM(clicks), 0) FROM projects`, nil, &stats.TotalClicks},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(today)}, &stats.VisitorsToday},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(now.AddDate(0, 0, -7))}, &stats.VisitorsThisWeek},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.TopProjects, err = s.TopProjects(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}
