package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"online-judge/internal/domain"
)

// Catalog stores problems as JSONB rows; position keeps the append order.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) Load(ctx context.Context) ([]domain.Problem, error) {
	rows, err := c.pool.Query(ctx, `SELECT data FROM problems ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}
	defer rows.Close()

	problems := []domain.Problem{}
	row := 0
	for rows.Next() {
		row++
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		var p domain.Problem
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &domain.MalformedRecordError{Line: row, Text: string(raw), Err: err}
		}
		if p.Inputs == nil {
			p.Inputs = []int{}
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load problems: %w", err)
	}
	return problems, nil
}

func (c *Catalog) Append(ctx context.Context, p domain.Problem) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal problem: %w", err)
	}
	if _, err := c.pool.Exec(ctx, `INSERT INTO problems (data) VALUES ($1::jsonb)`, string(data)); err != nil {
		return fmt.Errorf("insert problem: %w", err)
	}
	return nil
}
