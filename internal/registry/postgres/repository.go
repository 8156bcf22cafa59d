// Package postgres provides a durable Registry implementation backed by pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/activities/internal/domain"
)

// Repository stores the activity roster in PostgreSQL. The unique constraint
// on participants enforces the one-email-per-activity invariant at the
// database level, so concurrent signups cannot produce duplicates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the roster tables and seeds them when empty.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activities (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    schedule TEXT NOT NULL,
    max_participants INT NOT NULL CHECK (max_participants > 0),
    position INT NOT NULL
);
CREATE TABLE IF NOT EXISTS participants (
    activity_name TEXT NOT NULL REFERENCES activities(name) ON DELETE CASCADE,
    email TEXT NOT NULL,
    signed_up_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (activity_name, email)
);`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return err
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM activities`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if err := insertSeed(ctx, tx); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertSeed(ctx context.Context, tx pgx.Tx) error {
	for position, activity := range domain.Seed() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO activities (name, description, schedule, max_participants, position) VALUES ($1,$2,$3,$4,$5)`,
			activity.Name, activity.Description, activity.Schedule, activity.MaxParticipants, position,
		); err != nil {
			return err
		}
		for _, email := range activity.Participants {
			if _, err := tx.Exec(ctx,
				`INSERT INTO participants (activity_name, email) VALUES ($1,$2)`,
				activity.Name, email,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// List returns every activity with its current roster, in seed order.
func (r *Repository) List(ctx context.Context) ([]domain.Activity, error) {
	const query = `
SELECT a.name, a.description, a.schedule, a.max_participants, p.email
FROM activities a
LEFT JOIN participants p ON p.activity_name = a.name
ORDER BY a.position, p.signed_up_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	index := make(map[string]int)
	for rows.Next() {
		var (
			activity domain.Activity
			email    *string
		)
		if err := rows.Scan(&activity.Name, &activity.Description, &activity.Schedule, &activity.MaxParticipants, &email); err != nil {
			return nil, err
		}

		i, ok := index[activity.Name]
		if !ok {
			activity.Participants = make([]string, 0, 2)
			out = append(out, activity)
			i = len(out) - 1
			index[activity.Name] = i
		}
		if email != nil {
			out[i].Participants = append(out[i].Participants, *email)
		}
	}
	return out, rows.Err()
}

// AddParticipant enrolls email in the named activity.
func (r *Repository) AddParticipant(ctx context.Context, activityName, email string) (*domain.Activity, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockActivity(ctx, tx, activityName); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO participants (activity_name, email) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		activityName, email,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAlreadySignedUp
	}

	activity, err := fetchActivity(ctx, tx, activityName)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return activity, nil
}

// RemoveParticipant unenrolls email from the named activity.
func (r *Repository) RemoveParticipant(ctx context.Context, activityName, email string) (*domain.Activity, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockActivity(ctx, tx, activityName); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM participants WHERE activity_name=$1 AND email=$2`,
		activityName, email,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrParticipantNotFound
	}

	activity, err := fetchActivity(ctx, tx, activityName)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return activity, nil
}

// ResetToSeed truncates the roster tables and reinserts the seed set.
func (r *Repository) ResetToSeed(ctx context.Context) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE participants, activities`); err != nil {
		return err
	}
	if err := insertSeed(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockActivity(ctx context.Context, tx pgx.Tx, activityName string) error {
	var name string
	err := tx.QueryRow(ctx, `SELECT name FROM activities WHERE name=$1 FOR UPDATE`, activityName).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrActivityNotFound
	}
	return err
}

func fetchActivity(ctx context.Context, tx pgx.Tx, activityName string) (*domain.Activity, error) {
	var activity domain.Activity
	err := tx.QueryRow(ctx,
		`SELECT name, description, schedule, max_participants FROM activities WHERE name=$1`,
		activityName,
	).Scan(&activity.Name, &activity.Description, &activity.Schedule, &activity.MaxParticipants)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT email FROM participants WHERE activity_name=$1 ORDER BY signed_up_at`,
		activityName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity.Participants = make([]string, 0, 2)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		activity.Participants = append(activity.Participants, email)
	}
	return &activity, rows.Err()
}
