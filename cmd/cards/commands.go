package main

import (
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ygodeck/internal/card"
	"ygodeck/internal/ingest"
	"ygodeck/internal/platform/ygoprodeck"
)

const userAgent = "ygodeck-cards/1.0 (+https://github.com/ygodeck)"

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Upsert cards from a JSON catalog file",
	Long: `Reads a JSON array of cards (the format written by 'cards export')
and upserts it into the catalog. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		cards, err := readCatalog(in)
		if err != nil {
			return err
		}

		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := card.NewPostgresRepo(pool, cfg.QueryTimeout())
		n, err := importCatalog(cmd.Context(), repo, cards, cfg.Catalog.BatchSize, log)
		if err != nil {
			return err
		}
		log.Info("catalog imported", zap.Int("cards", n))
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		cards, err := card.NewPostgresRepo(pool, cfg.QueryTimeout()).All(cmd.Context())
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := writeCatalog(out, cards); err != nil {
			return err
		}
		log.Info("catalog exported", zap.Int("cards", len(cards)))
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the card list from YGOPRODeck into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		timeout := cfg.QueryTimeout()
		repo := card.NewPostgresRepo(pool, timeout)
		source := ygoprodeck.NewClient(cfg.Catalog.SourceURL, userAgent, cfg.Catalog.SourceRPS, 3,
			ygoprodeck.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout()}))
		svc := ingest.NewService(source, repo, ingest.NewPostgresRepo(pool, timeout),
			card.NewCache(repo, 0, log.Named("card_cache")),
			ingest.Config{BatchSize: cfg.Catalog.BatchSize}, log.Named("ingest"))

		run, err := svc.Run(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("run %s: fetched=%d skipped=%d upserted=%d\n", run.ID, run.Fetched, run.Skipped, run.Upserted)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
