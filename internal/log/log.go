// Package log provides the audit log and compile history for latex-mcp.
// Entries are stored in ~/.latex-mcp/log/latex-mcp-log.db and record every
// CLI command and MCP tool invocation, across working directories.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("mcp:latex_compile", "compile").
//		Project(dir).
//		TexFile(opts.TexFile).
//		Compiler(string(opts.Compiler)).
//		Status(string(res.Status)).
//		RunID(res.RunID).
//		Output(res.FullLog).
//		Write(err)
//
//	log.Event("latex:clean", "clean").
//		Project(dir).
//		Detail("removed", len(res.RemovedFiles)).
//		Write(err)
//
// The source parameter follows the format "{extension}:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools. Examples: "latex:compile",
// "latex:watch", "mcp:latex_clean".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source  string // e.g., "latex:compile", "mcp:latex_compile"
	Action  string // verb: compile, clean, config, etc.
	Project string // working directory; stored hashed
	RunID   string // correlates a compile response with its row

	TexFile  string
	Compiler string
	Mode     string
	Status   string // classification of a compile

	// Timing
	Start time.Time // when Event() was called
	End   time.Time // when Write() was called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
	Output  string         // full compiler output; stored compressed
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{extension}:{command}" (e.g., "latex:compile")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:latex_compile")
//
// The action describes what operation was performed:
// "compile", "clean", "list", "config", etc.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now(),
		},
	}
}

// Project sets the working directory the operation ran in.
func (b *Builder) Project(dir string) *Builder {
	b.entry.Project = dir
	return b
}

// RunID sets the compile run identifier returned to the caller.
func (b *Builder) RunID(id string) *Builder {
	b.entry.RunID = id
	return b
}

// TexFile sets the main document of a compile or clean.
func (b *Builder) TexFile(name string) *Builder {
	b.entry.TexFile = name
	return b
}

// Compiler sets the engine used.
func (b *Builder) Compiler(c string) *Builder {
	b.entry.Compiler = c
	return b
}

// Mode sets the compilation mode.
func (b *Builder) Mode(m string) *Builder {
	b.entry.Mode = m
	return b
}

// Status sets the compile classification.
//
// A compile that fails on a LaTeX error is still a successful operation:
// Write(nil) with Status("error") records that the tool worked and the
// document did not.
func (b *Builder) Status(s string) *Builder {
	b.entry.Status = s
	return b
}

// Output attaches the full compiler output. It is stored zstd-compressed
// and retrieved with [Output].
func (b *Builder) Output(text string) *Builder {
	b.entry.Output = text
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// pass counts, durations, removed files, config keys, etc.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful.
// If err is non-nil, the entry is logged as failed with the error message.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}
	// One connection serialises writers from concurrent tool calls.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return err
	}

	global = &Logger{db: db, enc: enc, dec: dec}
	return nil
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	l := current()
	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.close()
		global = nil
	}
}

func current() *Logger {
	mu.Lock()
	defer mu.Unlock()
	return global
}
