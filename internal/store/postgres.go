package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ablejobs/matchcore/internal/match"
)

// PostgresConfig points at a database holding documents as jsonb:
//
//	CREATE TABLE documents (
//	    collection text  NOT NULL,
//	    id         text  NOT NULL,
//	    body       jsonb NOT NULL,
//	    PRIMARY KEY (collection, id)
//	);
//	CREATE TABLE applications (
//	    job_id       text NOT NULL,
//	    candidate_id text NOT NULL,
//	    applied_at   timestamptz NOT NULL DEFAULT now(),
//	    PRIMARY KEY (job_id, candidate_id)
//	);
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max-conns"`
}

const (
	queryDocument = `SELECT body FROM documents WHERE collection = $1 AND id = $2`

	queryJobExists = `SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`

	queryApplicants = `SELECT d.id, d.body
		FROM applications a
		JOIN documents d ON d.collection = $1 AND d.id = a.candidate_id
		WHERE a.job_id = $2
		ORDER BY a.applied_at, a.candidate_id`

	queryCollection = `SELECT id, body FROM documents WHERE collection = $1 ORDER BY id`
)

// querier is the part of *pgxpool.Pool the store reads through.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresStore struct {
	db    querier
	close func()
}

func newPostgresStore(db querier, closeFn func()) *PostgresStore {
	if closeFn == nil {
		closeFn = func() {}
	}
	return &PostgresStore{db: db, close: closeFn}
}

func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is not configured")
	}

	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return newPostgresStore(pool, pool.Close), nil
}

func (s *PostgresStore) Job(ctx context.Context, id string) (match.JobRecord, error) {
	doc, err := s.getDoc(ctx, collectionJobs, id)
	if err != nil {
		return match.JobRecord{}, err
	}
	return decodeJob(doc, id)
}

func (s *PostgresStore) Candidate(ctx context.Context, id string) (match.CandidateRecord, error) {
	doc, err := s.getDoc(ctx, collectionCandidates, id)
	if err != nil {
		return match.CandidateRecord{}, err
	}
	return decodeCandidate(doc, id)
}

func (s *PostgresStore) ApplicantsForJob(ctx context.Context, jobID string) ([]match.CandidateRecord, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, queryJobExists, collectionJobs, jobID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}
	if !exists {
		return nil, notFound(collectionJobs, jobID)
	}

	var out []match.CandidateRecord
	err := s.eachDoc(ctx, queryApplicants, []any{collectionCandidates, jobID}, func(id string, doc map[string]any) error {
		c, err := decodeCandidate(doc, id)
		if err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (s *PostgresStore) User(ctx context.Context, id string) (match.UserProfile, error) {
	doc, err := s.getDoc(ctx, collectionUsers, id)
	if err != nil {
		return match.UserProfile{}, err
	}
	return decodeUser(doc, id)
}

func (s *PostgresStore) Users(ctx context.Context) ([]match.UserProfile, error) {
	var out []match.UserProfile
	err := s.eachDoc(ctx, queryCollection, []any{collectionUsers}, func(id string, doc map[string]any) error {
		u, err := decodeUser(doc, id)
		if err != nil {
			return err
		}
		out = append(out, u)
		return nil
	})
	return out, err
}

func (s *PostgresStore) Close() error {
	s.close()
	return nil
}

func (s *PostgresStore) getDoc(ctx context.Context, collection, id string) (map[string]any, error) {
	var body []byte
	err := s.db.QueryRow(ctx, queryDocument, collection, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s document: %w", collection, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse %s document %q: %w", collection, id, err)
	}
	return doc, nil
}

func (s *PostgresStore) eachDoc(ctx context.Context, query string, args []any, fn func(id string, doc map[string]any) error) error {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("scan document: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(body, &doc); err != nil {
			return fmt.Errorf("parse document %q: %w", id, err)
		}
		if err := fn(id, doc); err != nil {
			return err
		}
	}
	return rows.Err()
}
