package refdata

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"go.uber.org/zap"
)

var symbolColumns = []string{"ticker", "instrument", "name", "sector", "exchange", "currency", "created_at", "updated_at"}

// Store persists the symbol universe in DuckDB. Pass ":memory:" as the DSN
// for an ephemeral store.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewStore opens the database and creates the schema.
func NewStore(log *logger.Logger, dsn string) (*Store, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRefDataStoreFailed, "failed to open symbol store", err)
	}

	store := &Store{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS symbols (
			ticker TEXT PRIMARY KEY,
			instrument TEXT,
			name TEXT,
			sector TEXT,
			exchange TEXT,
			currency TEXT,
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRefDataStoreFailed, "failed to create symbols table", err)
	}

	return nil
}

// InsertSymbols writes the batch in one transaction. Re-inserting an
// existing ticker replaces its descriptive fields and refreshes updated_at
// while keeping the original created_at.
func (s *Store) InsertSymbols(symbols []Symbol) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRefDataStoreFailed, "failed to begin transaction", err)
	}

	now := time.Now().UTC()

	for _, symbol := range symbols {
		insertQuery := s.sq.
			Insert("symbols").
			Columns(symbolColumns...).
			Values(symbol.Ticker, symbol.Instrument, symbol.Name, symbol.Sector, symbol.Exchange, symbol.Currency, now, now).
			Suffix(`ON CONFLICT (ticker) DO UPDATE SET
				instrument = excluded.instrument,
				name = excluded.name,
				sector = excluded.sector,
				exchange = excluded.exchange,
				currency = excluded.currency,
				updated_at = excluded.updated_at`).
			RunWith(tx)

		if _, err := insertQuery.Exec(); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeRefDataStoreFailed, err, "failed to insert symbol %s", symbol.Ticker)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeRefDataStoreFailed, "failed to commit symbols", err)
	}

	s.logger.Info("symbols stored", zap.Int("count", len(symbols)))

	return nil
}

// GetSymbol looks a ticker up.
func (s *Store) GetSymbol(ticker string) (Symbol, error) {
	query := s.sq.
		Select(symbolColumns...).
		From("symbols").
		Where(squirrel.Eq{"ticker": ticker}).
		RunWith(s.db)

	var symbol Symbol

	err := query.QueryRow().Scan(
		&symbol.Ticker, &symbol.Instrument, &symbol.Name, &symbol.Sector,
		&symbol.Exchange, &symbol.Currency, &symbol.CreatedAt, &symbol.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return Symbol{}, errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not in universe", ticker)
	}

	if err != nil {
		return Symbol{}, errors.Wrapf(errors.ErrCodeRefDataQueryFailed, err, "failed to query symbol %s", ticker)
	}

	return symbol, nil
}

// ListSymbols returns the universe ordered by ticker.
func (s *Store) ListSymbols() ([]Symbol, error) {
	query := s.sq.
		Select(symbolColumns...).
		From("symbols").
		OrderBy("ticker").
		RunWith(s.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRefDataQueryFailed, "failed to list symbols", err)
	}
	defer rows.Close()

	var symbols []Symbol

	for rows.Next() {
		var symbol Symbol

		err := rows.Scan(
			&symbol.Ticker, &symbol.Instrument, &symbol.Name, &symbol.Sector,
			&symbol.Exchange, &symbol.Currency, &symbol.CreatedAt, &symbol.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRefDataQueryFailed, "failed to scan symbol row", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRefDataQueryFailed, "failed to iterate symbol rows", err)
	}

	return symbols, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
