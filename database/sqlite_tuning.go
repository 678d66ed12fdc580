package database

import (
	"circounter/config"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type sqlitePoolConfig struct {
	maxOpenConns int
	maxIdleConns int
	maxIdleSec   int
	maxLifeSec   int
}

// sqlitePragma is one PRAGMA name/value pair
type sqlitePragma struct {
	name  string
	value string
}

// sanitizeSQLitePoolConfig keeps at least one open connection, no more idle than open, and no negative durations.
func sanitizeSQLitePoolConfig(cfg sqlitePoolConfig) sqlitePoolConfig {
	if cfg.maxOpenConns < 1 {
		cfg.maxOpenConns = 1
	}
	if cfg.maxIdleConns < 0 {
		cfg.maxIdleConns = 0
	}
	if cfg.maxIdleConns > cfg.maxOpenConns {
		cfg.maxIdleConns = cfg.maxOpenConns
	}
	if cfg.maxIdleSec < 0 {
		cfg.maxIdleSec = 0
	}
	if cfg.maxLifeSec < 0 {
		cfg.maxLifeSec = 0
	}
	return cfg
}

func currentSQLitePoolConfig(settings *config.Config) sqlitePoolConfig {
	return sanitizeSQLitePoolConfig(sqlitePoolConfig{
		maxOpenConns: settings.SQLiteMaxOpenConns,
		maxIdleConns: settings.SQLiteMaxIdleConns,
		maxIdleSec:   settings.SQLiteConnMaxIdleSec,
		maxLifeSec:   settings.SQLiteConnMaxLifeSec,
	})
}

// sqlitePragmas lists the PRAGMAs enabled by settings, in the order they are applied.
// Invalid journal_mode or synchronous values are skipped.
func sqlitePragmas(settings *config.Config) []sqlitePragma {
	if !settings.SQLitePragmasEnabled {
		return nil
	}

	var pragmas []sqlitePragma
	if settings.SQLiteBusyTimeoutMS > 0 {
		pragmas = append(pragmas, sqlitePragma{"busy_timeout", strconv.Itoa(settings.SQLiteBusyTimeoutMS)})
	}
	if journalMode := normalizeSQLiteJournalMode(settings.SQLiteJournalMode); journalMode != "" {
		pragmas = append(pragmas, sqlitePragma{"journal_mode", journalMode})
	}
	if synchronous := normalizeSQLiteSynchronous(settings.SQLiteSynchronous); synchronous != "" {
		pragmas = append(pragmas, sqlitePragma{"synchronous", synchronous})
	}
	fk := "0"
	if settings.SQLiteForeignKeys {
		fk = "1"
	}
	return append(pragmas, sqlitePragma{"foreign_keys", fk})
}

// buildSQLiteDSN appends the enabled PRAGMAs to dbPath as _pragma parameters,
// keeping any query the path already carries.
func buildSQLiteDSN(dbPath string, settings *config.Config) string {
	base, rawQuery, _ := strings.Cut(dbPath, "?")
	query, _ := url.ParseQuery(rawQuery)

	for _, p := range sqlitePragmas(settings) {
		query.Add("_pragma", fmt.Sprintf("%s(%s)", p.name, p.value))
	}

	if len(query) == 0 {
		return base
	}
	return base + "?" + query.Encode()
}

// applySQLitePragmas runs the enabled PRAGMAs on an open database.
// The DSN covers new connections; this covers the one gorm already holds.
func applySQLitePragmas(db *gorm.DB, settings *config.Config) {
	for _, p := range sqlitePragmas(settings) {
		db.Exec("PRAGMA " + p.name + " = " + p.value)
	}
}

func normalizeSQLiteJournalMode(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	switch value {
	case "WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF":
		return value
	default:
		return ""
	}
}

func normalizeSQLiteSynchronous(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	switch value {
	case "OFF", "NORMAL", "FULL", "EXTRA", "0", "1", "2", "3":
		return value
	default:
		return ""
	}
}
