package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// registers the "postgres" driver
	_ "github.com/lib/pq"

	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

const (
	schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	balance NUMERIC(20,4) NOT NULL CHECK (balance >= 0),
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	pending INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS predictions (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL REFERENCES users(id),
	game_id TEXT NOT NULL,
	pick TEXT NOT NULL,
	amount NUMERIC(20,4) NOT NULL,
	result TEXT NOT NULL DEFAULT 'pending'
);`

	seedUserSQL = `INSERT INTO users(id, username, balance, wins, losses, pending) VALUES($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`

	seedPredictionSQL = `INSERT INTO predictions(id, user_id, game_id, pick, amount, result) VALUES($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`

	selectUserSQL = `SELECT id, username, balance, wins, losses, pending FROM users WHERE id=$1`

	selectPredictionsSQL = `SELECT id, game_id, pick, amount, result FROM predictions WHERE user_id=$1 ORDER BY seq`

	lockBalanceSQL = `SELECT balance FROM users WHERE id=$1 FOR UPDATE`

	debitSQL = `UPDATE users SET balance = balance - $1 WHERE id=$2`

	insertPredictionSQL = `INSERT INTO predictions(id, user_id, game_id, pick, amount, result) VALUES($1,$2,$3,$4,$5,$6)`
)

// ConnectPostgres opens and pings a Postgres pool.
func ConnectPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresLedger persists the user and its predictions in Postgres.
type PostgresLedger struct {
	db     *sql.DB
	userID string
}

// NewPostgresLedger serves the user identified by userID from db.
func NewPostgresLedger(db *sql.DB, userID string) *PostgresLedger {
	return &PostgresLedger{db: db, userID: userID}
}

// EnsureSchema creates the ledger tables when missing.
func (p *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Seed inserts u and its predictions unless they already exist.
func (p *PostgresLedger) Seed(ctx context.Context, u users.User) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, seedUserSQL,
		u.ID, u.Username, u.Balance, u.Stats.Wins, u.Stats.Losses, u.Stats.Pending); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	for _, pr := range u.Predictions {
		if _, err = tx.ExecContext(ctx, seedPredictionSQL,
			pr.ID, u.ID, pr.GameID, pr.Pick, pr.Amount, string(pr.Result)); err != nil {
			return fmt.Errorf("seed prediction %s: %w", pr.ID, err)
		}
	}
	return tx.Commit()
}

// User loads the configured user with its predictions in submission order.
func (p *PostgresLedger) User(ctx context.Context) (users.User, error) {
	return loadUser(ctx, p.db, p.userID)
}

// PlacePrediction locks the user row, checks the balance, debits and records pr
// in a single transaction.
func (p *PostgresLedger) PlacePrediction(ctx context.Context, userID string, pr users.Prediction) (users.User, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return users.User{}, err
	}
	defer tx.Rollback()

	var balance sql.NullString
	err = tx.QueryRowContext(ctx, lockBalanceSQL, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrUserNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("lock user: %w", err)
	}

	current, err := loadUser(ctx, tx, userID)
	if err != nil {
		return users.User{}, err
	}
	if _, err := current.Debit(pr); err != nil {
		return current, err
	}

	if _, err = tx.ExecContext(ctx, debitSQL, pr.Amount, userID); err != nil {
		return users.User{}, fmt.Errorf("debit user: %w", err)
	}
	if _, err = tx.ExecContext(ctx, insertPredictionSQL,
		pr.ID, userID, pr.GameID, pr.Pick, pr.Amount, string(pr.Result)); err != nil {
		return users.User{}, fmt.Errorf("insert prediction: %w", err)
	}

	updated, err := loadUser(ctx, tx, userID)
	if err != nil {
		return users.User{}, err
	}
	if err = tx.Commit(); err != nil {
		return users.User{}, fmt.Errorf("commit prediction: %w", err)
	}
	return updated, nil
}

// Ping checks the connection.
func (p *PostgresLedger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the pool.
func (p *PostgresLedger) Close() error {
	return p.db.Close()
}

func loadUser(ctx context.Context, q queryer, userID string) (users.User, error) {
	var u users.User
	err := q.QueryRowContext(ctx, selectUserSQL, userID).Scan(
		&u.ID, &u.Username, &u.Balance, &u.Stats.Wins, &u.Stats.Losses, &u.Stats.Pending)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrUserNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("load user: %w", err)
	}

	rows, err := q.QueryContext(ctx, selectPredictionsSQL, userID)
	if err != nil {
		return users.User{}, fmt.Errorf("load predictions: %w", err)
	}
	defer rows.Close()

	u.Predictions = []users.Prediction{}
	for rows.Next() {
		var pr users.Prediction
		var result string
		if err := rows.Scan(&pr.ID, &pr.GameID, &pr.Pick, &pr.Amount, &result); err != nil {
			return users.User{}, fmt.Errorf("scan prediction: %w", err)
		}
		pr.Result = users.Result(result)
		u.Predictions = append(u.Predictions, pr)
	}
	if err := rows.Err(); err != nil {
		return users.User{}, fmt.Errorf("load predictions: %w", err)
	}
	return u, nil
}
