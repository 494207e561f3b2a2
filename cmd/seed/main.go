// Seeds demo projects for a local deployment so the project dropdown has
// content on first run. Idempotent: existing rows for the demo user are
// replaced wholesale.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

var (
	dsn      = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	username = flag.String("username", "dylan", "Owner for the seeded demo projects")
	dryRun   = flag.Bool("dry-run", false, "Print what would be written; no DB writes")
)

type demoProject struct {
	name    string
	filters []string
}

// Ids reference the offline fallback dataset in internal/buildings.
var demoProjects = []demoProject{
	{name: "Bronx sample", filters: []string{"2044580014"}},
	{name: "All fallback buildings", filters: []string{"2044580014", "5010820061"}},
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if *username == "" {
		fatalf("--username must not be blank")
	}

	if *dryRun {
		for _, p := range demoProjects {
			fmt.Printf("would seed %q for %s with %d filter ids\n", p.name, *username, len(p.filters))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("open: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM dashboard.projects WHERE username = $1`, *username); err != nil {
		fatalf("clearing old demo projects: %v", err)
	}

	for _, p := range demoProjects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dashboard.projects (id, username, project_name, filters, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, now(), now())`,
			uuid.NewString(), *username, p.name, pq.Array(p.filters)); err != nil {
			fatalf("inserting %q: %v", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("seeded %d projects for %s\n", len(demoProjects), *username)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
