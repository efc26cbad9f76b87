// log_query.go reads the compile history back for the history commands and
// the latex_history tool.

package log

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotOpen is returned by queries when the logger has not been opened.
	ErrNotOpen = errors.New("history is not available")
	// ErrNotFound is returned when no entry matches a reference.
	ErrNotFound = errors.New("history entry not found")
)

// Record is a stored log entry.
type Record struct {
	ID        int64          `json:"id"`
	Start     time.Time      `json:"started_at"`
	End       time.Time      `json:"ended_at"`
	Source    string         `json:"source"`
	Action    string         `json:"action"`
	RunID     string         `json:"run_id,omitempty"`
	TexFile   string         `json:"tex_file,omitempty"`
	Compiler  string         `json:"compiler,omitempty"`
	Mode      string         `json:"mode,omitempty"`
	Status    string         `json:"status,omitempty"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	HasOutput bool           `json:"has_output"`
}

// Filter narrows a history query.
type Filter struct {
	Project string // working directory; empty matches all
	Action  string // e.g. "compile"; empty matches all
	Limit   int    // maximum rows, newest first; <= 0 means 20

	// ExcludeStatus leaves out entries with any of these statuses.
	// Entries without a status are kept.
	ExcludeStatus []string
}

const recordColumns = `id, started_at, ended_at, source, action, run_id, tex_file,
	compiler, mode, status, success, error, detail, output IS NOT NULL`

// Recent returns the newest entries matching f.
func Recent(ctx context.Context, f Filter) ([]Record, error) {
	l := current()
	if l == nil {
		return nil, ErrNotOpen
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}

	q := `SELECT ` + recordColumns + ` FROM log WHERE 1=1`
	var args []any
	if f.Project != "" {
		q += ` AND project = ?`
		args = append(args, hash(f.Project))
	}
	if f.Action != "" {
		q += ` AND action = ?`
		args = append(args, f.Action)
	}
	if len(f.ExcludeStatus) > 0 {
		q += ` AND (status IS NULL OR status NOT IN (?` + strings.Repeat(`, ?`, len(f.ExcludeStatus)-1) + `))`
		for _, s := range f.ExcludeStatus {
			args = append(args, s)
		}
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, f.Limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns one entry by numeric id or run id.
func Get(ctx context.Context, ref string) (Record, error) {
	l := current()
	if l == nil {
		return Record{}, ErrNotOpen
	}
	q, arg := lookup(ref)
	row := l.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM log WHERE `+q, arg)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return r, err
}

// Output returns the decompressed compiler output of an entry.
func Output(ctx context.Context, ref string) (string, error) {
	l := current()
	if l == nil {
		return "", ErrNotOpen
	}
	q, arg := lookup(ref)
	var blob []byte
	err := l.db.QueryRowContext(ctx, `SELECT output FROM log WHERE `+q, arg).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("reading output: %w", err)
	}
	if len(blob) == 0 {
		return "", nil
	}
	out, err := l.dec.DecodeAll(blob, nil)
	if err != nil {
		return "", fmt.Errorf("decompressing output: %w", err)
	}
	return string(out), nil
}

// Prune deletes entries started before the cutoff and returns how many
// were removed.
func Prune(ctx context.Context, before time.Time) (int64, error) {
	l := current()
	if l == nil {
		return 0, ErrNotOpen
	}
	res, err := l.db.ExecContext(ctx, `DELETE FROM log WHERE started_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		// Reclaim the space held by compressed outputs.
		_, _ = l.db.ExecContext(ctx, `VACUUM`)
	}
	return n, nil
}

// lookup matches all-digit references against the row id and anything
// else against the run id.
func lookup(ref string) (string, any) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return `id = ?`, id
	}
	return `run_id = ?`, ref
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		r                                        Record
		start, end                               int64
		runID, tex, compiler, mode, status, errS sql.NullString
		detail                                   sql.NullString
		success                                  int
	)
	err := s.Scan(&r.ID, &start, &end, &r.Source, &r.Action, &runID, &tex,
		&compiler, &mode, &status, &success, &errS, &detail, &r.HasOutput)
	if err != nil {
		return Record{}, err
	}
	r.Start = time.UnixMilli(start)
	r.End = time.UnixMilli(end)
	r.RunID = runID.String
	r.TexFile = tex.String
	r.Compiler = compiler.String
	r.Mode = mode.String
	r.Status = status.String
	r.Success = success == 1
	r.Error = errS.String
	if detail.Valid {
		_ = json.Unmarshal([]byte(detail.String), &r.Detail)
	}
	return r, nil
}
