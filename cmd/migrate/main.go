package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/karaoke-backend/pkg/config"
	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	"github.com/angelmondragon/karaoke-backend/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

// gooseCommands run against a live postgres connection.
var gooseCommands = map[string]func(ctx context.Context, sqlDB *sql.DB, opts options) error{
	"up":     func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "up") },
	"down":   func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "down") },
	"redo":   func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "redo") },
	"status": func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "status") },

	"version": func(ctx context.Context, sqlDB *sql.DB, o options) error {
		if o.version == "" {
			return errors.New("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, o.dir, o.version)
	},
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|redo|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version YYYYMMDDHHMMSS (for version)")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// create and validate only touch files
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    opts.cmd,
		"dir":    opts.dir,
		"driver": cfg.DB.Driver,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbClient.Close()

	if cfg.DB.IsSQLite() {
		// sqlite files are local scratch databases built from the models
		if opts.cmd != "up" {
			return fmt.Errorf("only up is supported on %s", cfg.DB.Driver)
		}
		if err := migrate.MigrateModels(ctx, dbClient.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema migrated from models")
		return nil
	}

	command, ok := gooseCommands[opts.cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("extract sql.DB: %w", err)
	}
	if err := command(ctx, sqlDB, opts); err != nil {
		return err
	}
	logg.Info(ctx, "migration command finished")
	return nil
}
