package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/backup"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("export", "", "write a backup file to this path")
	importPath := flag.String("import", "", "backup file or directory of backup files to import")
	replace := flag.Bool("replace", false, "wipe existing sessions before importing")
	dryRun := flag.Bool("dry-run", false, "parse and validate but don't write to the database")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-backup", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*exportPath == "") == (*importPath == "") {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-backup -config config.yaml (-export FILE | -import FILE_OR_DIR [-replace] [-dry-run])\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *exportPath != "" {
		if err := runExport(ctx, db, *exportPath, log); err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runImport(ctx, db, *importPath, *replace, *dryRun, log); err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func runExport(ctx context.Context, db *storage.DB, path string, log *slog.Logger) error {
	sessions, err := db.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}

	data, err := backup.Stringify(sessions, time.Now())
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Info("backup written", "path", path, "sessions", len(sessions))
	return nil
}

func runImport(ctx context.Context, db *storage.DB, path string, replace, dryRun bool, log *slog.Logger) error {
	files, err := collectBackupFiles(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no backup files found at %s", path)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	state, err := backup.OpenStateDB(filepath.Join(homeDir, ".liftlog-backup"))
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer state.Close()

	if dryRun {
		log.Info("DRY RUN mode — files will be validated but not imported")
	}
	if replace && !dryRun {
		if err := db.ReplaceAllSessions(ctx, nil); err != nil {
			return fmt.Errorf("clearing sessions: %w", err)
		}
		log.Info("existing sessions cleared")
	}

	imported, skipped := 0, 0
	for _, file := range files {
		hash, err := backup.HashFile(file)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", file, err)
		}

		if !replace {
			done, err := state.IsImported(filepath.Base(file), hash)
			if err != nil {
				return fmt.Errorf("checking state for %s: %w", file, err)
			}
			if done {
				log.Info("skipping already imported file", "file", file)
				skipped++
				continue
			}
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		sessions, err := backup.Parse(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}

		if dryRun {
			log.Info("validated", "file", file, "sessions", len(sessions))
			continue
		}

		// Session IDs are stable, so re-importing overlapping backups
		// upserts rather than duplicating.
		if err := db.SaveSessions(ctx, sessions); err != nil {
			return fmt.Errorf("importing %s: %w", file, err)
		}
		if err := state.MarkImported(filepath.Base(file), hash, len(sessions)); err != nil {
			return fmt.Errorf("recording state for %s: %w", file, err)
		}
		log.Info("imported", "file", file, "sessions", len(sessions))
		imported++
	}

	log.Info("import complete", "files_imported", imported, "files_skipped", skipped)
	return nil
}

func collectBackupFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	return files, nil
}
