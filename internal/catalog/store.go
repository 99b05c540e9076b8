package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sentinel/internal/config"
)

// Store manages event catalog persistence backed by SQLite.
type Store struct {
	db        *sql.DB
	path      string
	mediaDir  string
	maxEvents int
}

// Open initializes or connects to the catalog database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:        db,
		path:      dbPath,
		mediaDir:  cfg.Paths.MediaDir,
		maxEvents: cfg.Catalog.MaxEvents,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the catalog database location.
func (s *Store) Path() string {
	return s.path
}

const eventColumns = "id, camera_id, timestamp_ms, type, video_path, thumbnail_path, is_read"

// AddEvent inserts a security event and enforces the retention ceiling as part
// of the same logical operation. The video artifact must already exist on disk
// when this is called; the pipeline orders file writes before inserts.
func (s *Store) AddEvent(ctx context.Context, ev NewEvent) (*Event, error) {
	if strings.TrimSpace(ev.CameraID) == "" {
		return nil, errors.New("camera id is required")
	}
	if !ev.Type.Valid() {
		return nil, fmt.Errorf("unknown detection type %q", ev.Type)
	}
	if strings.TrimSpace(ev.VideoPath) == "" {
		return nil, errors.New("video path is required")
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()

	event := &Event{
		ID:            uuid.NewString(),
		CameraID:      ev.CameraID,
		Timestamp:     ts,
		Type:          ev.Type,
		VideoPath:     ev.VideoPath,
		ThumbnailPath: ev.ThumbnailPath,
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO events (id, camera_id, timestamp_ms, type, video_path, thumbnail_path, is_read)
         VALUES (?, ?, ?, ?, ?, ?, 0)`,
		event.ID,
		event.CameraID,
		ts.UnixMilli(),
		string(event.Type),
		event.VideoPath,
		event.ThumbnailPath,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := s.enforceRetention(ctx); err != nil {
		return nil, fmt.Errorf("enforce retention: %w", err)
	}

	return event, nil
}

// enforceRetention evicts at most one event: the oldest read event, or the
// oldest event overall when none are read.
func (s *Store) enforceRetention(ctx context.Context) error {
	total, err := s.GetCount(ctx, nil)
	if err != nil {
		return err
	}
	if total <= s.maxEvents {
		return nil
	}

	var victim string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM events WHERE is_read = 1 ORDER BY timestamp_ms ASC LIMIT 1`,
	).Scan(&victim)
	if errors.Is(err, sql.ErrNoRows) {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM events ORDER BY timestamp_ms ASC LIMIT 1`,
		).Scan(&victim)
	}
	if err != nil {
		return fmt.Errorf("select eviction victim: %w", err)
	}

	return s.DeleteEvent(ctx, victim)
}

// ListOptions filters GetEvents results.
type ListOptions struct {
	Before *time.Time
	Limit  int
	IsRead *bool
}

// GetEvents returns events ordered newest-first.
func (s *Store) GetEvents(ctx context.Context, opts ListOptions) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var clauses []string
	var args []any
	if opts.IsRead != nil {
		clauses = append(clauses, "is_read = ?")
		args = append(args, boolToInt(*opts.IsRead))
	}
	if opts.Before != nil {
		clauses = append(clauses, "timestamp_ms < ?")
		args = append(args, opts.Before.UnixMilli())
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp_ms DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetEvent fetches a single event by identifier.
func (s *Store) GetEvent(ctx context.Context, id string) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// GetCount returns the number of events, optionally filtered by read state.
func (s *Store) GetCount(ctx context.Context, isRead *bool) (int, error) {
	query := `SELECT COUNT(1) FROM events`
	var args []any
	if isRead != nil {
		query += " WHERE is_read = ?"
		args = append(args, boolToInt(*isRead))
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// MarkAsRead flags one event as read.
func (s *Store) MarkAsRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE events SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark event read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead flags every unread event as read and reports how many changed.
func (s *Store) MarkAllAsRead(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE events SET is_read = 1 WHERE is_read = 0`)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// DeleteEvent removes an event row and its media files from disk.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	s.removeMediaFile(event.VideoPath)
	s.removeMediaFile(event.ThumbnailPath)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// UpsertCamera mirrors a configured camera into the catalog.
func (s *Store) UpsertCamera(ctx context.Context, cam CameraRow) error {
	if strings.TrimSpace(cam.ID) == "" {
		return errors.New("camera id is required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO cameras (id, name, address) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET name = excluded.name, address = excluded.address`,
		cam.ID,
		cam.Name,
		cam.Address,
	)
	if err != nil {
		return fmt.Errorf("upsert camera: %w", err)
	}
	return nil
}

// CheckEventExists reports whether an event for the camera at the exact
// capture timestamp is already recorded. The reconciliation scanner relies on
// this for idempotence.
func (s *Store) CheckEventExists(ctx context.Context, cameraID string, ts time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM events WHERE camera_id = ? AND timestamp_ms = ?`,
		cameraID,
		ts.UnixMilli(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return count > 0, nil
}

// removeMediaFile deletes a media artifact referenced by a catalog row. Paths
// are stored relative to the media directory. Missing files are not an error.
func (s *Store) removeMediaFile(relative string) {
	if strings.TrimSpace(relative) == "" {
		return
	}
	full := filepath.Join(s.mediaDir, filepath.FromSlash(strings.TrimPrefix(relative, "/")))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Row deletion proceeds; an orphaned file is recoverable, a stuck
		// catalog is not.
		return
	}
}

func scanEvent(scanner interface{ Scan(dest ...any) error }) (*Event, error) {
	var (
		id        string
		cameraID  string
		tsMillis  int64
		typeStr   string
		videoPath string
		thumbPath string
		isRead    int
	)
	if err := scanner.Scan(&id, &cameraID, &tsMillis, &typeStr, &videoPath, &thumbPath, &isRead); err != nil {
		return nil, err
	}
	return &Event{
		ID:            id,
		CameraID:      cameraID,
		Timestamp:     time.UnixMilli(tsMillis).UTC(),
		Type:          DetectionType(typeStr),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
		IsRead:        isRead != 0,
	}, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
