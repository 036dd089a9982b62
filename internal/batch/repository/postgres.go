package repository

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const table = "cotton_batches"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PGRepository keeps each batch as a JSON document keyed by id.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type row struct {
	ID      string `db:"id"`
	Payload []byte `db:"payload"`
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Batch, error) {
	query, args, err := psql.Select("id", "payload").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	var rows []row
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}

	batches := make([]model.Batch, 0, len(rows))
	for _, rw := range rows {
		var b model.Batch
		if err := json.Unmarshal(rw.Payload, &b); err != nil {
			return nil, fmt.Errorf("decode batch %s: %w", rw.ID, err)
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

func (r *PGRepository) Save(ctx context.Context, b *model.Batch) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode batch %s: %w", b.ID, err)
	}
	query, args, err := psql.Insert(table).
		Columns("id", "payload").
		Values(b.ID, payload).
		Suffix("ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert batch %s: %w", b.ID, err)
	}
	return nil
}
