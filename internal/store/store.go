// Package store persists imported dataset artifacts in PostgreSQL. The raw
// document is kept verbatim so the viewer parses exactly what was imported;
// per-node rows with pgvector embeddings back the stats and query surface.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/semspace/semspace/internal/util"
	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var ErrDatasetNotFound = errors.New("store: dataset not found")

// Store wraps the connection pool for dataset persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and registers the pgvector types on every
// pooled connection.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if _, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the underlying connection pool for infrastructure that shares
// the database, such as the import lease locks.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// migrateURL rewrites the connection URL scheme so migrate selects its pgx/v5
// driver, keeping migrations on the same driver stack as the pool.
func migrateURL(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	u.Scheme = "pgx5"
	return u.String(), nil
}

// Migrate applies the embedded schema migrations.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	target, err := migrateURL(databaseURL)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, target)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// DatasetInfo is the catalog row for one imported dataset.
type DatasetInfo struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TotalWords         int    `json:"total_words"`
	EmbeddingDimension int    `json:"embedding_dimension"`
	Model              string `json:"model"`
	Projection         string `json:"projection"`
}

// SaveDataset stores the parsed dataset and its raw document under the given
// name, replacing any previous import with that name. All writes happen in
// one transaction.
func (s *Store) SaveDataset(ctx context.Context, name string, d *dataset.Dataset, raw []byte) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	id := util.NewID()
	err = tx.QueryRow(ctx, `
		INSERT INTO datasets (id, name, total_words, embedding_dimension, model, projection, raw_document)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			total_words = EXCLUDED.total_words,
			embedding_dimension = EXCLUDED.embedding_dimension,
			model = EXCLUDED.model,
			projection = EXCLUDED.projection,
			raw_document = EXCLUDED.raw_document,
			updated_at = now()
		RETURNING id`,
		id, name, d.Metadata.TotalWords, d.Metadata.EmbeddingDimension,
		d.Metadata.Model, d.Metadata.Projection, raw,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert dataset: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM dataset_nodes WHERE dataset_id = $1`, id); err != nil {
		return "", fmt.Errorf("clear nodes: %w", err)
	}

	for _, n := range d.Nodes {
		var embedding any
		if len(n.Embedding) > 0 {
			embedding = pgvector.NewVector(n.Embedding)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO dataset_nodes (dataset_id, word, x, y, z, frequency, example, categories, similar, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, n.Word, n.Position.X, n.Position.Y, n.Position.Z,
			n.Frequency, n.Example, n.Categories, n.Similar, embedding,
		)
		if err != nil {
			return "", fmt.Errorf("insert node %q: %w", n.Word, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	logger.Info("[Store] Saved dataset", "name", name, "id", id, "words", len(d.Nodes))
	return id, nil
}

// RawDocument returns the verbatim artifact bytes for a stored dataset.
func (s *Store) RawDocument(ctx context.Context, name string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT raw_document FROM datasets WHERE name = $1`, name,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query raw document: %w", err)
	}
	return raw, nil
}

// ListDatasets returns the catalog of stored datasets, newest first.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, total_words, embedding_dimension, model, projection
		FROM datasets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.TotalWords,
			&info.EmbeddingDimension, &info.Model, &info.Projection); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// NearestWords runs a cosine-distance search against the stored embeddings
// of one dataset.
func (s *Store) NearestWords(ctx context.Context, name string, embedding []float32, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT n.word
		FROM dataset_nodes n
		JOIN datasets d ON d.id = n.dataset_id
		WHERE d.name = $1 AND n.embedding IS NOT NULL
		ORDER BY n.embedding <=> $2
		LIMIT $3`,
		name, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("query nearest words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
