// log_storage.go implements SQLite-based persistent audit logging.
//
// Separated from log.go to isolate database concerns. The main log.go provides
// the fluent API for building log entries, while this file handles persistence.
// The project field uses a hash of the working directory so history can be
// filtered per document tree without recording host paths.
//
// Errors during logging are reported on stderr and otherwise ignored: a
// compile succeeds even if it cannot be recorded.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	var output []byte
	if e.Output != "" {
		output = l.enc.EncodeAll([]byte(e.Output), nil)
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (started_at, ended_at, project, source, action, run_id,
		                 tex_file, compiler, mode, status, success, error, detail, output)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start.UnixMilli(), e.End.UnixMilli(), hash(e.Project), e.Source, e.Action,
		nilIfEmpty(e.RunID), nilIfEmpty(e.TexFile), nilIfEmpty(e.Compiler),
		nilIfEmpty(e.Mode), nilIfEmpty(e.Status),
		success, nilIfEmpty(e.Error), detail, output,
	)
	if err != nil {
		// Best-effort logging: don't break main operation, but report failure
		_, _ = fmt.Fprintf(os.Stderr, "latex-mcp: audit log write failed: %v\n", err)
	}
}

func (l *Logger) close() {
	l.enc.Close()
	l.dec.Close()
	l.db.Close()
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Containers may run without a resolvable home directory.
		return filepath.Join(".latex-mcp", "log", "latex-mcp-log.db")
	}
	return filepath.Join(home, ".latex-mcp", "log", "latex-mcp-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash creates a project identifier from the working directory.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		// Should never happen with nil key, but don't silently ignore
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// ProjectID returns the identifier stored for a working directory.
func ProjectID(dir string) string {
	return hash(dir)
}

// migrate creates the log table if it doesn't exist. Safe for concurrent access.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			ended_at   INTEGER NOT NULL,
			project    TEXT NOT NULL,
			source     TEXT NOT NULL,
			action     TEXT NOT NULL,
			run_id     TEXT,
			tex_file   TEXT,
			compiler   TEXT,
			mode       TEXT,
			status     TEXT,
			success    INTEGER NOT NULL,
			error      TEXT,
			detail     TEXT,
			output     BLOB
		);
		CREATE INDEX IF NOT EXISTS idx_log_started ON log(started_at);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_run_id ON log(run_id);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings, reducing NULL checks in queries.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
