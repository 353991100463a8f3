// Command migrate applies the SQL files in migrations/ to the database at
// DATABASE_URL, one transaction per file, in lexical order. With --list it
// prints the simulation tables that currently exist instead.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/ignite/audience-simulator/internal/pkg/logger"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	dir := "migrations"
	listOnly := false
	for _, a := range os.Args[1:] {
		if a == "--list" {
			listOnly = true
		} else {
			dir = a
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("database unreachable", "error", err.Error())
		os.Exit(1)
	}

	if listOnly {
		if err := listTables(db); err != nil {
			logger.Error("list tables failed", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	applied, failed, err := apply(db, dir)
	if err != nil {
		logger.Error("migration aborted", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("migrations finished", "applied", applied, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func listTables(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename LIKE 'simulation_%'
		ORDER BY tablename
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		fmt.Println(" ", name)
		n++
	}
	fmt.Printf("Total: %d tables\n", n)
	return rows.Err()
}

func apply(db *sql.DB, dir string) (applied, failed int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return applied, failed, fmt.Errorf("read %s: %w", f, err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return applied, failed, fmt.Errorf("begin %s: %w", f, err)
		}
		if _, err := tx.Exec(content); err != nil {
			tx.Rollback()
			logger.Error("migration failed", "file", f, "error", err.Error())
			failed++
			continue
		}
		if err := tx.Commit(); err != nil {
			return applied, failed, fmt.Errorf("commit %s: %w", f, err)
		}
		logger.Info("migration applied", "file", f)
		applied++
	}
	return applied, failed, nil
}
