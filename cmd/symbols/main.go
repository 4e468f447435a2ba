package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/event-trading/internal/logger"
	"github.com/rxtech-lab/event-trading/internal/refdata"
	"github.com/urfave/cli/v3"
)

func openStore(cmd *cli.Command) (*refdata.Store, *logger.Logger, error) {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := refdata.NewStore(appLogger, cmd.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return store, appLogger, nil
}

// importAction loads a symbol CSV (ticker, instrument, name, sector,
// exchange, currency) into the store.
func importAction(ctx context.Context, cmd *cli.Command) error {
	store, appLogger, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	defer appLogger.Sync()

	file, err := os.Open(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open symbol file: %w", err)
	}
	defer file.Close()

	var symbols []refdata.Symbol
	if err := gocsv.UnmarshalFile(file, &symbols); err != nil {
		return fmt.Errorf("failed to parse symbol file: %w", err)
	}

	if err := store.InsertSymbols(symbols); err != nil {
		return err
	}

	fmt.Printf("Imported %d symbols\n", len(symbols))

	return nil
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	store, appLogger, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	defer appLogger.Sync()

	symbols, err := store.ListSymbols()
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		fmt.Printf("%-8s %-8s %-32s %-20s %-8s %s\n",
			symbol.Ticker, symbol.Instrument, symbol.Name, symbol.Sector, symbol.Exchange, symbol.Currency)
	}

	fmt.Printf("%d symbols\n", len(symbols))

	return nil
}

func getAction(ctx context.Context, cmd *cli.Command) error {
	store, appLogger, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	defer appLogger.Sync()

	symbol, err := store.GetSymbol(cmd.String("ticker"))
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s): %s, sector %s, %s on %s, added %s\n",
		symbol.Ticker, symbol.Instrument, symbol.Name, symbol.Sector,
		symbol.Currency, symbol.Exchange, symbol.CreatedAt.Format("2006-01-02"))

	return nil
}

func main() {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to the DuckDB symbol database",
		Value:   "symbols.duckdb",
	}

	cmd := &cli.Command{
		Name:  "symbols",
		Usage: "Manage the symbol universe backing backtests",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import symbols from a CSV file",
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "CSV file with ticker, instrument, name, sector, exchange, currency columns",
						Required: true,
					},
				},
				Action: importAction,
			},
			{
				Name:   "list",
				Usage:  "List all stored symbols",
				Flags:  []cli.Flag{dbFlag},
				Action: listAction,
			},
			{
				Name:  "get",
				Usage: "Show one symbol",
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Ticker to look up",
						Required: true,
					},
				},
				Action: getAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
