// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists users, subscription plans, usage counters, and an
// audit trail in SQLite. The research pipeline itself never touches this
// package; the CLI records one usage row and one audit entry per run
// through the narrow UsageStore interface.
// See docs/ARCHITECTURE.md § Usage Store.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/deepresearch/pkg/types"
)

// UsageStore is the storage contract the CLI depends on. The concrete
// backend behind it is interchangeable.
type UsageStore interface {
	GetOrCreateUser(email, name string) (User, error)
	TrackUsage(userID, resourceType string, count int) error
	CheckUsageLimit(userID, resourceType string) (UsageStatus, error)
	LogAudit(userID, action, detail string) error
	Close() error
}

// User is an account row.
type User struct {
	ID    string
	Email string
	Name  string
	Plan  string
}

// UsageStatus reports a user's standing against their plan limit for one
// resource type.
type UsageStatus struct {
	ResourceType string
	Current      int
	Limit        int
	Unlimited    bool
	WithinLimit  bool
}

// plan holds a subscription tier's monthly research allowance. A negative
// limit means unlimited.
type plan struct {
	name          string
	priceMonthly  int
	researchLimit int
}

// defaultPlans seeds the plans table on first open.
var defaultPlans = []plan{
	{name: "go", priceMonthly: 0, researchLimit: 5},
	{name: "plus", priceMonthly: 290, researchLimit: 50},
	{name: "pro", priceMonthly: 990, researchLimit: -1},
}

const defaultPlan = "go"

// Store manages the usage database.
type Store struct {
	db *sql.DB
}

var _ UsageStore = (*Store)(nil)

// NewStore opens or creates the SQLite database at cfg.Path, creating the
// schema and seeding the default plans if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "deepresearch.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := s.seedPlans(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding plans: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			name TEXT PRIMARY KEY,
			price_monthly INTEGER NOT NULL,
			research_limit INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT,
			plan TEXT NOT NULL REFERENCES plans(name),
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS usage (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			resource_type TEXT NOT NULL,
			resource_count INTEGER NOT NULL,
			period TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_user_period ON usage(user_id, period)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			detail TEXT,
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) seedPlans() error {
	for _, p := range defaultPlans {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO plans (name, price_monthly, research_limit) VALUES (?, ?, ?)`,
			p.name, p.priceMonthly, p.researchLimit,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreateUser returns the user with the given email, creating one on
// the default plan if none exists.
func (s *Store) GetOrCreateUser(email, name string) (User, error) {
	var u User
	err := s.db.QueryRow(
		`SELECT id, email, name, plan FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Plan)
	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		return User{}, fmt.Errorf("querying user: %w", err)
	}

	u = User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Plan:  defaultPlan,
	}
	_, err = s.db.Exec(
		`INSERT INTO users (id, email, name, plan, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Plan, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return User{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// TrackUsage records resource consumption against the current month.
func (s *Store) TrackUsage(userID, resourceType string, count int) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO usage (id, user_id, resource_type, resource_count, period, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, resourceType, count,
		now.Format("2006-01"), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("tracking usage: %w", err)
	}
	return nil
}

// MonthlyUsage sums a user's consumption of one resource type for the
// given month.
func (s *Store) MonthlyUsage(userID, resourceType string, year int, month time.Month) (int, error) {
	period := fmt.Sprintf("%04d-%02d", year, month)
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT SUM(resource_count) FROM usage
		 WHERE user_id = ? AND resource_type = ? AND period = ?`,
		userID, resourceType, period,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("querying monthly usage: %w", err)
	}
	return int(total.Int64), nil
}

// CheckUsageLimit reports whether the user is within their plan's monthly
// allowance for the resource type. A negative plan limit means unlimited.
func (s *Store) CheckUsageLimit(userID, resourceType string) (UsageStatus, error) {
	var limit int
	err := s.db.QueryRow(
		`SELECT p.research_limit FROM users u JOIN plans p ON u.plan = p.name WHERE u.id = ?`,
		userID,
	).Scan(&limit)
	if err != nil {
		return UsageStatus{}, fmt.Errorf("querying plan limit: %w", err)
	}

	now := time.Now().UTC()
	current, err := s.MonthlyUsage(userID, resourceType, now.Year(), now.Month())
	if err != nil {
		return UsageStatus{}, err
	}

	status := UsageStatus{
		ResourceType: resourceType,
		Current:      current,
		Limit:        limit,
		Unlimited:    limit < 0,
		WithinLimit:  limit < 0 || current < limit,
	}
	return status, nil
}

// LogAudit appends one entry to the audit trail.
func (s *Store) LogAudit(userID, action, detail string) error {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (id, user_id, action, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, action, detail, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("logging audit entry: %w", err)
	}
	return nil
}
