package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"todo-app/internal/config"
	"todo-app/internal/database"
	"todo-app/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "Migration command: up|status|down|version")
	target := flag.Int64("to", 0, "Target version for down (0 rolls back one step)")
	flag.Parse()

	config.LoadEnvFile(".env")
	ctx := context.Background()

	cfg, err := config.NewDatabaseConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg.URL, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	case "version":
		var v int64
		if v, err = migrator.Version(ctx); err == nil {
			fmt.Println(v)
		}
	default:
		err = fmt.Errorf("unknown command %q", *command)
	}
	if err != nil {
		logger.Error(ctx, "Migration command failed", "command", *command, "error", err)
		os.Exit(1)
	}
}
