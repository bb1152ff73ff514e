//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/pawpals/pawpals-api/internal/pkg/database"
)

// ownerTables stands in for the services owning users, dogs, groups and walks. Only
// the columns the entity resolver reads are created.
const ownerTables = `
CREATE TABLE IF NOT EXISTS users (
    id           BIGSERIAL PRIMARY KEY,
    display_name TEXT NOT NULL,
    avatar_url   TEXT
);
CREATE TABLE IF NOT EXISTS dogs (
    id        BIGSERIAL PRIMARY KEY,
    name      TEXT NOT NULL,
    photo_url TEXT
);
CREATE TABLE IF NOT EXISTS groups (
    id        BIGSERIAL PRIMARY KEY,
    name      TEXT NOT NULL,
    cover_url TEXT
);
CREATE TABLE IF NOT EXISTS walks (
    id    BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL
);
`

// PostgresContainer wraps a migrated testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sqlx.DB
}

// NewPostgresContainer starts PostgreSQL, applies the schema migrations and creates
// the owner tables. The container is terminated when t finishes.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pawpals_test"),
		tcpostgres.WithUsername("pawpals"),
		tcpostgres.WithPassword("pawpals"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	if err := database.Migrate(url); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.ExecContext(ctx, ownerTables); err != nil {
		t.Fatalf("failed to create owner tables: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		URL:       url,
		DB:        db,
	}
}

// Truncate empties every table and restarts identities.
// Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE keywords, tag_assignments, comments, moderation_actions,
			group_memberships, user_matches, users, dogs, groups, walks
		RESTART IDENTITY CASCADE
	`)
	return err
}

// InsertUser creates an owner-side user row and returns its id.
func (p *PostgresContainer) InsertUser(t *testing.T, name string) int64 {
	t.Helper()
	return p.insert(t, `INSERT INTO users (display_name) VALUES ($1) RETURNING id`, name)
}

// InsertDog creates an owner-side dog row and returns its id.
func (p *PostgresContainer) InsertDog(t *testing.T, name string) int64 {
	t.Helper()
	return p.insert(t, `INSERT INTO dogs (name) VALUES ($1) RETURNING id`, name)
}

// InsertGroup creates an owner-side group row and returns its id.
func (p *PostgresContainer) InsertGroup(t *testing.T, name string) int64 {
	t.Helper()
	return p.insert(t, `INSERT INTO groups (name) VALUES ($1) RETURNING id`, name)
}

func (p *PostgresContainer) insert(t *testing.T, query, label string) int64 {
	t.Helper()
	var id int64
	if err := p.DB.QueryRowxContext(context.Background(), query, label).Scan(&id); err != nil {
		t.Fatalf("failed to insert owner row: %v", err)
	}
	return id
}
