// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/wfunc/guessjam/models"
)

// PostgreSQL is a plain database/sql snapshot store, for deployments that
// prefer raw SQL over GORM.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS snapshots (
            id SERIAL PRIMARY KEY,
            match_id VARCHAR(255) UNIQUE NOT NULL,
            data JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            match_id VARCHAR(255) NOT NULL,
            winner_id VARCHAR(255) NOT NULL,
            teams JSONB NOT NULL,
            songs_played INT NOT NULL,
            total_songs INT NOT NULL,
            duration_secs INT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_snapshots_match_id ON snapshots(match_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_match_id ON match_records(match_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
    `)

	return err
}

func (p *PostgreSQL) SaveSnapshot(matchID string, blob []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO snapshots (match_id, data)
        VALUES ($1, $2)
        ON CONFLICT (match_id)
        DO UPDATE SET data = $2, updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query, matchID, blob)
	return err
}

func (p *PostgreSQL) LoadSnapshot(matchID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data []byte
	query := `SELECT data FROM snapshots WHERE match_id = $1`
	err := p.db.QueryRowContext(ctx, query, matchID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

func (p *PostgreSQL) ClearSnapshot(matchID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `DELETE FROM snapshots WHERE match_id = $1`, matchID)
	return err
}

func (p *PostgreSQL) SaveMatchRecord(record *models.MatchRecord) error {
	teams, err := json.Marshal(record.Teams)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO match_records (match_id, winner_id, teams, songs_played, total_songs, duration_secs)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err = p.db.ExecContext(ctx, query,
		record.MatchID,
		record.WinnerID,
		teams,
		record.SongsPlayed,
		record.TotalSongs,
		record.DurationSecs)
	return err
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
