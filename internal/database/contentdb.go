package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fromdoppler/htmleditor/internal/model"
)

// DBFileName is the archive file name inside the database directory.
const DBFileName = "htmleditor.db"

// ContentDB stores processed content records in SQLite.
type ContentDB struct {
	db *sql.DB

	dbPath string
}

// Options configures ContentDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ContentDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ContentDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create the file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &ContentDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *ContentDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *ContentDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *ContentDB) createTables() error {
	schema := `
	-- One row per processed input
	CREATE TABLE IF NOT EXISTS contents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		layout TEXT NOT NULL,
		content TEXT NOT NULL,
		head TEXT,
		editor_content TEXT NOT NULL DEFAULT '',
		performed_steps TEXT NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		processed_at TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_contents_source ON contents(source);
	CREATE INDEX IF NOT EXISTS idx_contents_fingerprint ON contents(fingerprint);

	-- Field ids referenced by a content, in order of first appearance
	CREATE TABLE IF NOT EXISTS content_fields (
		content_id INTEGER NOT NULL REFERENCES contents(id),
		position INTEGER NOT NULL,
		field_id INTEGER NOT NULL,
		field_name TEXT,
		PRIMARY KEY (content_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_content_fields_field ON content_fields(field_id);

	-- Trackable links of a content, in order of first appearance
	CREATE TABLE IF NOT EXISTS content_links (
		content_id INTEGER NOT NULL REFERENCES contents(id),
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		PRIMARY KEY (content_id, position)
	);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveContentRecord stores record with its field ids and links in one
// transaction and sets record.ID.
func (cdb *ContentDB) SaveContentRecord(ctx context.Context, record *model.ContentRecord) (id int64, err error) {
	stepsJSON, err := json.Marshal(record.PerformedSteps)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize performed steps: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var head sql.NullString
	if record.Head != nil {
		head = sql.NullString{String: *record.Head, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
	INSERT INTO contents (source, fingerprint, layout, content, head, editor_content,
		performed_steps, cancelled, error, processed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.Source,
		record.Fingerprint,
		record.Layout,
		record.Content,
		head,
		record.EditorContent,
		string(stepsJSON),
		record.Cancelled,
		record.ErrorMessage,
		record.ProcessedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert content: %w", err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read content id: %w", err)
	}

	for i, fieldID := range record.FieldIDs {
		var name sql.NullString
		if n, ok := record.FieldNames[fieldID]; ok {
			name = sql.NullString{String: n, Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO content_fields (content_id, position, field_id, field_name) VALUES (?, ?, ?, ?)`,
			id, i, fieldID, name,
		); err != nil {
			return 0, fmt.Errorf("failed to insert field %d: %w", fieldID, err)
		}
	}

	for i, url := range record.TrackableURLs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO content_links (content_id, position, url) VALUES (?, ?, ?)`,
			id, i, url,
		); err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit content: %w", err)
	}

	record.ID = id
	return id, nil
}

// GetContentRecord retrieves a record by its id.
// It returns nil, nil when no record has that id.
func (cdb *ContentDB) GetContentRecord(ctx context.Context, id int64) (*model.ContentRecord, error) {
	query := `
	SELECT id, source, fingerprint, layout, content, head, editor_content,
		performed_steps, cancelled, error, processed_at
	FROM contents
	WHERE id = ?
	`

	var (
		record      model.ContentRecord
		head        sql.NullString
		stepsJSON   string
		processedAt string
	)

	err := cdb.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.Source,
		&record.Fingerprint,
		&record.Layout,
		&record.Content,
		&head,
		&record.EditorContent,
		&stepsJSON,
		&record.Cancelled,
		&record.ErrorMessage,
		&processedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	if head.Valid {
		record.Head = &head.String
	}
	record.ProcessedAt = parseTimestamp(processedAt)
	if err := json.Unmarshal([]byte(stepsJSON), &record.PerformedSteps); err != nil {
		return nil, fmt.Errorf("failed to parse performed steps: %w", err)
	}

	if err := cdb.loadFields(ctx, &record); err != nil {
		return nil, err
	}
	if err := cdb.loadLinks(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (cdb *ContentDB) loadFields(ctx context.Context, record *model.ContentRecord) error {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT field_id, field_name FROM content_fields WHERE content_id = ? ORDER BY position`,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	record.FieldIDs = make([]int, 0)
	record.FieldNames = make(map[int]string)
	for rows.Next() {
		var (
			fieldID int
			name    sql.NullString
		)
		if err := rows.Scan(&fieldID, &name); err != nil {
			return fmt.Errorf("failed to scan field: %w", err)
		}
		record.FieldIDs = append(record.FieldIDs, fieldID)
		if name.Valid {
			record.FieldNames[fieldID] = name.String
		}
	}

	return rows.Err()
}

func (cdb *ContentDB) loadLinks(ctx context.Context, record *model.ContentRecord) error {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT url FROM content_links WHERE content_id = ? ORDER BY position`,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	record.TrackableURLs = make([]string, 0)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}
		record.TrackableURLs = append(record.TrackableURLs, url)
	}

	return rows.Err()
}

// ContentSummary is the archive listing entry of a record.
type ContentSummary struct {
	ID          int64
	Source      string
	Fingerprint string
	Layout      string
	FieldCount  int
	LinkCount   int
	Failed      bool
	ProcessedAt time.Time
}

const summaryQuery = `
	SELECT c.id, c.source, c.fingerprint, c.layout,
		(SELECT COUNT(*) FROM content_fields f WHERE f.content_id = c.id),
		(SELECT COUNT(*) FROM content_links l WHERE l.content_id = c.id),
		c.cancelled OR c.error <> '',
		c.processed_at
	FROM contents c
	`

// ListContentRecords returns the summaries of all records, or of the
// records of one source when source is not empty, newest first.
func (cdb *ContentDB) ListContentRecords(ctx context.Context, source string) ([]ContentSummary, error) {
	query := summaryQuery + " WHERE 1=1"
	args := make([]any, 0)

	if source != "" {
		query += " AND c.source = ?"
		args = append(args, source)
	}
	query += " ORDER BY c.id DESC"

	return cdb.querySummaries(ctx, query, args...)
}

// FindByFingerprint returns the summaries of the records whose raw input
// had the given fingerprint, newest first.
func (cdb *ContentDB) FindByFingerprint(ctx context.Context, fingerprint string) ([]ContentSummary, error) {
	return cdb.querySummaries(ctx, summaryQuery+" WHERE c.fingerprint = ? ORDER BY c.id DESC", fingerprint)
}

func (cdb *ContentDB) querySummaries(ctx context.Context, query string, args ...any) ([]ContentSummary, error) {
	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	results := make([]ContentSummary, 0)
	for rows.Next() {
		var (
			s           ContentSummary
			processedAt string
		)
		if err := rows.Scan(
			&s.ID,
			&s.Source,
			&s.Fingerprint,
			&s.Layout,
			&s.FieldCount,
			&s.LinkCount,
			&s.Failed,
			&processedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.ProcessedAt = parseTimestamp(processedAt)
		results = append(results, s)
	}

	return results, rows.Err()
}

// ListSources returns the distinct sources in the archive, sorted.
func (cdb *ContentDB) ListSources(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `SELECT DISTINCT source FROM contents ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := make([]string, 0)
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses s with the known formats and returns the zero time
// when none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
