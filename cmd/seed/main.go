package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"uigen/internal/config"
	"uigen/internal/domain/models/llm"
	"uigen/internal/repository/postgres"
	"uigen/internal/service/project"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a starter project")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	seedUserID := os.Getenv("SEED_USER_ID")
	if seedUserID == "" {
		log.Println("SEED_USER_ID not set; skipping starter project")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projects := project.NewService(postgres.NewProjectRepository(repoConfig), logger)

	created, err := projects.Create(ctx, seedUserID, starterProject())
	if err != nil {
		log.Fatalf("Failed to create starter project: %v", err)
	}
	log.Printf("Created starter project %s (%s)", created.Name, created.ID)
}

// runSchema creates the projects table if it doesn't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createProjects := `
		CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			messages TEXT NOT NULL DEFAULT '[]',
			data TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createProjects); err != nil {
		return err
	}

	// List is always scoped by owner and ordered by recency
	index := `CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `projects_user_updated
		ON ` + tables.Projects + `(user_id, updated_at DESC)`
	if _, err := pool.Exec(ctx, index); err != nil {
		return err
	}

	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Projects+" CASCADE"); err != nil {
		return err
	}
	log.Printf("  Dropped %s", tables.Projects)
	return nil
}

const starterAppJSX = `export default function App() {
  return (
    <div className="min-h-screen flex items-center justify-center bg-slate-50">
      <div className="text-center">
        <h1 className="text-3xl font-bold text-slate-900">Welcome</h1>
        <p className="mt-2 text-slate-600">
          Describe the component you want and it will appear here.
        </p>
      </div>
    </div>
  );
}
`

func starterProject() *project.CreateRequest {
	return &project.CreateRequest{
		Name: "Starter Design",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Create a welcome screen"},
			{Role: llm.RoleAssistant, Content: "I created a simple welcome screen to get you started."},
		},
		Data: map[string]interface{}{
			"/": map[string]interface{}{
				"type": "directory",
				"name": "/",
				"path": "/",
			},
			"/App.jsx": map[string]interface{}{
				"type":    "file",
				"name":    "App.jsx",
				"path":    "/App.jsx",
				"content": starterAppJSX,
			},
		},
	}
}
