package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/badger"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/livepoll/internal/config"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	repo, closeStore, err := openHistory(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entries, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("Error reading history: %v", err)
	}
	render(os.Stdout, entries)
}

// loadConfig applies flag overrides on top of the environment and validates
// the result.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("pollhistory", flag.ContinueOnError)
	fs.StringVar(&cfg.StoreDriver, "driver", cfg.StoreDriver, "Store driver (badger or postgres)")
	fs.StringVar(&cfg.BadgerPath, "badger-path", cfg.BadgerPath, "Badger directory; stop the server first")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openHistory(cfg *config.Config) (ports.HistoryRepository, func(), error) {
	if cfg.StoreDriver == config.DriverPostgres {
		db, err := postgres.Open(cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewHistoryRepository(db), func() { db.Close() }, nil
	}
	db, err := badger.Open(cfg.BadgerPath)
	if err != nil {
		return nil, nil, err
	}
	return badger.NewHistoryRepository(db), func() { db.Close() }, nil
}

func render(w io.Writer, entries []domain.HistoryEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Created", "Question", "Status", "Answered", "Results"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, e := range entries {
		table.Append([]string{
			fmt.Sprint(i + 1),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Question,
			statusLabel(e.Status),
			fmt.Sprint(len(e.Answers)),
			formatResults(e),
		})
	}
	table.Render()
}

func statusLabel(status domain.RoundStatus) string {
	switch status {
	case domain.RoundOpen:
		return color.New(color.FgYellow).Render(string(status))
	case domain.RoundAborted:
		return color.New(color.FgRed).Render(string(status))
	default:
		return color.New(color.FgGreen).Render(string(status))
	}
}

// formatResults lists counts in option order and marks correct options.
func formatResults(e domain.HistoryEntry) string {
	parts := lo.Map(e.Options, func(opt string, i int) string {
		mark := ""
		if i < len(e.CorrectAnswers) && e.CorrectAnswers[i] {
			mark = "*"
		}
		return fmt.Sprintf("%s%s=%d", opt, mark, e.Results[opt])
	})
	return strings.Join(parts, " ")
}
