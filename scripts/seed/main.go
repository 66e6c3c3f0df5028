// Seed creates a demo user and bulk-inserts todos for it. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-app/internal/auth"
	"todo-app/internal/config"
	"todo-app/internal/database"
	"todo-app/internal/models"
	"todo-app/internal/repository"
)

func main() {
	email := flag.String("email", "demo@example.com", "Seed user email")
	password := flag.String("password", "demo-password", "Seed user password")
	total := flag.Int("count", 10_000, "Number of todos to insert")
	flag.Parse()

	config.LoadEnvFile(".env")
	dbCfg, err := config.NewDatabaseConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, dbCfg.URL, dbCfg.PoolSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err == nil {
		err = migrator.Up(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	userID, err := seedUser(ctx, repository.NewUserRepository(db), *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "User failed:", err)
		os.Exit(1)
	}

	const batchSize = 500
	start := time.Now()
	inserted := 0
	for inserted < *total {
		n := min(batchSize, *total-inserted)
		args := make([]any, 0, n*5)
		placeholders := make([]string, 0, n)
		for i := 0; i < n; i++ {
			seq := inserted + i + 1
			status := models.StatusPending
			if seq%3 == 0 {
				status = models.StatusCompleted
			}
			placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,NOW(),NOW())",
				5*i+1, 5*i+2, 5*i+3, 5*i+4, 5*i+5))
			args = append(args,
				uuid.NewString(),
				fmt.Sprintf("Todo %d", seq),
				fmt.Sprintf("Description for todo %d", seq),
				string(status),
				userID,
			)
		}
		q := `INSERT INTO todos (id, title, description, status, user_id, created_at, updated_at) VALUES ` +
			strings.Join(placeholders, ",")
		if _, err := db.ExecContext(ctx, q, args...); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		inserted += n
		fmt.Printf("\rInserted %d / %d", inserted, *total)
	}

	stats, err := repository.NewTodoRepository(db).CountByStatus(ctx, userID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Count failed:", err)
		os.Exit(1)
	}
	fmt.Printf("\nDone: %d todos in %v (user %s: %d pending, %d completed)\n",
		inserted, time.Since(start), *email, stats.Pending, stats.Completed)
}

// seedUser returns the id of the account for email, creating it if needed.
func seedUser(ctx context.Context, users *repository.UserRepository, email, password string) (string, error) {
	email = models.NormalizeEmail(email)
	if u, err := users.GetByEmail(ctx, email); err == nil {
		return u.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	u := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := users.Create(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}
