package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

type recordRow struct {
	bun.BaseModel `bun:"table:records,alias:r"`

	Family    string          `bun:"family,pk"`
	ID        string          `bun:"id,pk"`
	Timestamp time.Time       `bun:"ts,nullzero"`
	Payload   json.RawMessage `bun:"payload,type:jsonb"`
}

// BunStore persists record collections in Postgres. WriteAll replaces a
// family's rows inside one transaction, preserving the whole-collection
// commit semantics of the other backends.
type BunStore struct {
	db *bun.DB
}

type PostgresConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

func NewBunStore(cfg PostgresConfig) *BunStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	return &BunStore{db: bun.NewDB(sqldb, pgdialect.New())}
}

// Init creates the records table if it does not exist.
func (s *BunStore) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*recordRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create records table: %v", contractx.ErrPersistence, err)
	}
	return nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) ReadAll(ctx context.Context, family contractx.Family) ([]Record, error) {
	var rows []recordRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("family = ?", string(family)).
		Order("ts ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrPersistence, family, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		var rec Record
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode %s record id=%s: %v", contractx.ErrPersistence, family, row.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *BunStore) WriteAll(ctx context.Context, family contractx.Family, records []Record) error {
	rows := make([]recordRow, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: encode %s record id=%s: %v", contractx.ErrPersistence, family, rec.ID, err)
		}
		rows = append(rows, recordRow{
			Family:    string(family),
			ID:        rec.ID,
			Timestamp: rec.Timestamp,
			Payload:   payload,
		})
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*recordRow)(nil)).
			Where("family = ?", string(family)).
			Exec(ctx); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersistence, family, err)
	}
	return nil
}
