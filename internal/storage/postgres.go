package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/facepipe/internal/config"
	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/secrets"
)

// connectTimeout bounds database connection establishment.
const connectTimeout = 10 * time.Second

// ConnectivityError reports an unreachable secret store or database.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// PostgresStore is the uploads-table repository. Connections are pooled;
// each statement acquires and releases its own connection, so every exit
// path of an invocation leaves nothing checked out.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore resolves credentials through the given resolver and opens
// a connection pool against the uploads database.
func NewPostgresStore(ctx context.Context, resolver secrets.Resolver, cfg config.DatabaseConfig) (*PostgresStore, error) {
	creds, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, &ConnectivityError{Op: "resolve database credentials", Err: err}
	}

	poolCfg, err := pgxpool.ParseConfig(creds.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &ConnectivityError{Op: "connect to postgres", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &ConnectivityError{Op: "ping postgres", Err: err}
	}

	table := cfg.Table
	if table == "" {
		table = "uploads"
	}
	return &PostgresStore{pool: pool, table: table}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) tableIdent() string {
	return pgx.Identifier{s.table}.Sanitize()
}

// EnsureSchema idempotently creates the uploads table and its secondary
// indexes. Safe to call on every invocation.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ident := s.tableIdent()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			storage_bucket VARCHAR(255) NOT NULL,
			storage_key TEXT NOT NULL,
			face_index_result JSONB NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, ident),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (storage_bucket)`,
			pgx.Identifier{"idx_" + s.table + "_storage_bucket"}.Sanitize(), ident),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (left(storage_key, 191))`,
			pgx.Identifier{"idx_" + s.table + "_storage_key_prefix"}.Sanitize(), ident),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// InsertUpload appends one upload record. Each insert commits on its own;
// earlier rows of a batch stay committed if a later one fails.
func (s *PostgresStore) InsertUpload(ctx context.Context, bucket, key string, result models.FaceIndexResult) (int64, error) {
	blob, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("marshal face index result: %w", err)
	}

	var id int64
	q := fmt.Sprintf(
		`INSERT INTO %s (storage_bucket, storage_key, face_index_result, created_at)
		 VALUES ($1, $2, $3, now()) RETURNING id`, s.tableIdent())
	if err := s.pool.QueryRow(ctx, q, bucket, key, blob).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert upload: %w", err)
	}
	return id, nil
}

// FindUploadByFaceID returns the first stored upload whose serialized face
// index result contains faceID as a substring, or nil when none matches.
// The substring scan over the JSON blob preserves the lookup contract the
// search pipeline depends on; callers never see the storage strategy.
func (s *PostgresStore) FindUploadByFaceID(ctx context.Context, faceID string) (*models.UploadRecord, error) {
	q := fmt.Sprintf(
		`SELECT id, storage_bucket, storage_key, face_index_result, created_at
		 FROM %s WHERE face_index_result::text LIKE $1 LIMIT 1`, s.tableIdent())

	rec := &models.UploadRecord{}
	err := s.pool.QueryRow(ctx, q, "%"+faceID+"%").
		Scan(&rec.ID, &rec.StorageBucket, &rec.StorageKey, &rec.FaceIndexResult, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find upload by face id: %w", err)
	}
	return rec, nil
}

// GetUpload returns one upload record by id, or nil when absent.
func (s *PostgresStore) GetUpload(ctx context.Context, id int64) (*models.UploadRecord, error) {
	q := fmt.Sprintf(
		`SELECT id, storage_bucket, storage_key, face_index_result, created_at
		 FROM %s WHERE id = $1`, s.tableIdent())

	rec := &models.UploadRecord{}
	err := s.pool.QueryRow(ctx, q, id).
		Scan(&rec.ID, &rec.StorageBucket, &rec.StorageKey, &rec.FaceIndexResult, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return rec, nil
}

// ListUploads returns a page of upload records, newest first, optionally
// filtered by bucket, plus the total count for the filter.
func (s *PostgresStore) ListUploads(ctx context.Context, bucket string, limit, offset int) ([]models.UploadRecord, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	where := ""
	args := []interface{}{}
	if bucket != "" {
		where = "WHERE storage_bucket = $1"
		args = append(args, bucket)
	}

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, s.tableIdent(), where)
	if err := s.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count uploads: %w", err)
	}

	q := fmt.Sprintf(
		`SELECT id, storage_bucket, storage_key, face_index_result, created_at
		 FROM %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		s.tableIdent(), where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []models.UploadRecord
	for rows.Next() {
		var rec models.UploadRecord
		if err := rows.Scan(&rec.ID, &rec.StorageBucket, &rec.StorageKey, &rec.FaceIndexResult, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, rec)
	}
	return uploads, total, nil
}
