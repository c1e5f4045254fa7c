package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/draftroom/go/internal/dbconfig"
	"github.com/mcdev12/draftroom/go/internal/draft/pool"
)

// Loads a YAML player pool into pool_players. Without LEAGUE_ID it seeds the default pool
// every league falls back to.
func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	// 1) Load the pool file
	path := "go/internal/assets/pool.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	players, err := pool.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse pool: %v\n", err)
		os.Exit(1)
	}

	leagueID := uuid.Nil
	if v := os.Getenv("LEAGUE_ID"); v != "" {
		if leagueID, err = uuid.Parse(v); err != nil {
			fmt.Fprintf(os.Stderr, "invalid LEAGUE_ID: %v\n", err)
			os.Exit(1)
		}
	}

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	dsn := cfg.DSN()
	if v := os.Getenv("POOL_DATABASE_URL"); v != "" {
		dsn = v
	}
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3) Seed
	source := pool.NewPostgres(db)
	if err := source.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	inserted, updated, err := source.Upsert(ctx, leagueID, players)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed pool: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"Pool seed: league=%s total=%d inserted=%d updated=%d\n",
		leagueID, len(players), inserted, updated,
	)
}
