package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minewalk/internal/records"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type PlayerRecord struct {
	Player    string             `db:"player"`
	Total     int                `db:"total"`
	Win       int                `db:"win"`
	Lose      int                `db:"lose"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
	UpdatedAt pgtype.Timestamptz `db:"updated_at"`
}

func (p PlayerRecord) Record() records.Record {
	return records.Record{Total: p.Total, Wins: p.Win, Losses: p.Lose}
}

// PostgresStore keeps records in the player_record table created by the
// migrations in internal/database.
type PostgresStore struct {
	db DBTX
}

func NewPostgres(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return errors.Join(ErrSchemaMissing, err)
	}
	return err
}

func (q *PostgresStore) FetchPlayerRecord(ctx context.Context, player string) (*PlayerRecord, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM player_record WHERE player = $1", player,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PlayerRecord])
}

func (q *PostgresStore) Load(ctx context.Context, player string) (records.Record, error) {
	p, err := q.FetchPlayerRecord(ctx, player)
	if errors.Is(err, pgx.ErrNoRows) {
		return records.Record{}, records.ErrNotFound
	}
	if err != nil {
		return records.Record{}, classify(err)
	}
	return p.Record(), nil
}

func (q *PostgresStore) Save(ctx context.Context, player string, r records.Record) error {
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO player_record (player, total, win, lose)
		VALUES (@player, @total, @win, @lose)
		ON CONFLICT (player) DO UPDATE
		SET total = excluded.total,
			win = excluded.win,
			lose = excluded.lose,
			updated_at = now();`,
		pgx.NamedArgs{
			"player": player,
			"total":  r.Total,
			"win":    r.Wins,
			"lose":   r.Losses,
		},
	)
	return classify(err)
}
