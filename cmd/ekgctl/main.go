// ekgctl administers a credgraph database: bulk export, bulk import and
// demo seeding, all through the same stores the server uses.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/credgraph/credgraph/internal/config"
	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/service"
	"github.com/credgraph/credgraph/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var databaseURL string

func main() {
	root := &cobra.Command{
		Use:           "ekgctl",
		Short:         "Administer a credgraph reputation database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection string (defaults to DATABASE_URL)")

	root.AddCommand(exportCmd(), importCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, service.Stores, error) {
	_ = config.Load()

	url := databaseURL
	if url == "" {
		url = config.DatabaseURL()
	}
	if url == "" {
		return nil, service.Stores{}, fmt.Errorf("no database URL: set --database-url or DATABASE_URL")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, service.Stores{}, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, service.Stores{}, fmt.Errorf("ping: %w", err)
	}

	stores := service.Stores{
		Sources:        store.NewSourceStore(pool),
		Events:         store.NewEventStore(pool),
		Claims:         store.NewClaimStore(pool),
		Entities:       store.NewEntityStore(pool),
		Artifacts:      store.NewArtifactStore(pool),
		Refutations:    store.NewRefutationStore(pool),
		Investigations: store.NewInvestigationStore(pool),
	}
	return pool, stores, nil
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole graph as one bulk JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, stores, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			data, err := service.NewTransferService(stores, zap.NewNop()).Export(ctx)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = fmt.Fprintln(os.Stdout, string(encoded))
				return err
			}
			return os.WriteFile(out, append(encoded, '\n'), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load a bulk JSON document, skipping bad records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var raw []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			var data service.BulkData
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("parse bulk document: %w", err)
			}

			pool, stores, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			res := service.NewTransferService(stores, zap.NewNop()).Import(ctx, &data)
			fmt.Printf("imported %d records, %d failed\n", res.Imported, res.Failed)
			for _, msg := range res.Errors {
				fmt.Fprintln(os.Stderr, "  skipped:", msg)
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d records failed", res.Failed)
			}
			return nil
		},
	}
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a small demo investigation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, stores, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := service.NewRepository(stores, config.Scoring(), zap.NewNop())
			return seed(ctx, repo)
		},
	}
}

// seed builds a small refutation scenario: one event, a rumor spread by a
// low-credit account, and an official correction that refutes it.
func seed(ctx context.Context, repo *service.Repository) error {
	rumor, err := repo.FindOrCreateSource(ctx, "viral-rumors-daily", domain.SourceSocialMedia, service.SourceAttrs{
		Description: "High-volume aggregation account",
	})
	if err != nil {
		return err
	}
	official, err := repo.FindOrCreateSource(ctx, "city-health-office", domain.SourceOfficialMedia, service.SourceAttrs{
		URL: "https://health.city.example",
	})
	if err != nil {
		return err
	}

	event, err := repo.CreateEvent(ctx, "demo-water-contamination", service.EventAttrs{
		Title:    "Claims of contaminated municipal water supply",
		Category: "public-health",
		Tags:     []string{"demo"},
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEvent) {
			fmt.Println("demo data already seeded")
			return nil
		}
		return err
	}

	rumorClaim, err := repo.CreateClaim(ctx, service.ClaimInput{
		Text:     "Tap water in the north district is unsafe to drink",
		SourceID: rumor.ID,
		EventID:  event.ID,
	})
	if err != nil {
		return err
	}
	correction, err := repo.CreateClaim(ctx, service.ClaimInput{
		Text:     "Routine testing shows the north district supply meets all safety standards",
		SourceID: official.ID,
		EventID:  event.ID,
	})
	if err != nil {
		return err
	}

	if _, err := repo.UpdateClaimStatus(ctx, rumorClaim.ID, domain.ClaimRefuted, nil); err != nil {
		return err
	}
	if _, err := repo.UpdateClaimStatus(ctx, correction.ID, domain.ClaimVerified, nil); err != nil {
		return err
	}
	if _, err := repo.CreateClaimRefutation(ctx, correction.ID, rumorClaim.ID, 0.95, nil); err != nil {
		return err
	}
	if _, err := repo.UpdateSourceCreditScore(ctx, rumor.ID, -5); err != nil {
		return err
	}
	if _, err := repo.UpdateSourceCreditScore(ctx, official.ID, 5); err != nil {
		return err
	}

	fmt.Printf("seeded event %s with sources %s, %s\n", event.ID, rumor.Name, official.Name)
	return nil
}
