package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// ResultRepository archives the outcome of finished games. In-flight games
// live in redis; only the final result is durable.
type ResultRepository interface {
	SaveResult(ctx context.Context, gameID, winner string) error
	CountWinsByColor(ctx context.Context) (map[string]int, error)
}

type dbResult struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

func (that *dbResult) SaveResult(ctx context.Context, gameID, winner string) error {
	query := `INSERT INTO results (game_id, winner) VALUES (?, ?)`

	if _, err := that.conn.ExecContext(ctx, query, gameID, winner); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) CountWinsByColor(ctx context.Context) (map[string]int, error) {
	query := `SELECT winner, COUNT(*) FROM results GROUP BY winner`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count wins: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var winner string
		var count int
		if err = rows.Scan(&winner, &count); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		wins[winner] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read result rows: %w", err)
	}

	return wins, nil
}
