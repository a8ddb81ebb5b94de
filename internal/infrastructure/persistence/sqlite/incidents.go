package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"incidentBot/internal/domain"
)

const defaultListLimit = 50

// IncidentStore is the append-only incident journal.
type IncidentStore struct {
	db *sql.DB
}

func NewIncidentStore(dbPath string) (*IncidentStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &IncidentStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const incidentsTable = `
CREATE TABLE IF NOT EXISTS incidents (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	kind TEXT NOT NULL,
	platform TEXT,
	channel_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	author_id TEXT,
	excerpt TEXT,
	signals TEXT,
	triage TEXT,
	error TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incidents_created_at ON incidents(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_incidents_message_id ON incidents(message_id);`

	if _, err := db.Exec(incidentsTable); err != nil {
		return fmt.Errorf("sqlite: migrate incidents: %w", err)
	}

	return nil
}

func (s *IncidentStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *IncidentStore) SaveIncident(ctx context.Context, incident *domain.Incident) (*domain.Incident, error) {
	if incident == nil {
		return nil, fmt.Errorf("sqlite: incident nil")
	}

	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}

	const stmt = `
INSERT INTO incidents (id, kind, platform, channel_id, message_id, author_id, excerpt, signals, triage, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

	_, err := s.db.ExecContext(
		ctx,
		stmt,
		incident.ID,
		string(incident.Kind),
		string(incident.Platform),
		incident.ChannelID,
		incident.MessageID,
		nullString(incident.AuthorID),
		nullString(incident.Excerpt),
		encodeSignals(incident.Signals),
		encodeTriage(incident.Triage),
		nullString(incident.Error),
		incident.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: save incident: %w", err)
	}

	return incident, nil
}

// ListIncidents returns the newest entries first. limit <= 0 means 50.
func (s *IncidentStore) ListIncidents(ctx context.Context, limit int) ([]*domain.Incident, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	const query = `
SELECT id, kind, platform, channel_id, message_id, author_id, excerpt, signals, triage, error, created_at
FROM incidents
ORDER BY created_at DESC, seq DESC
LIMIT ?;
`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list incidents: %w", err)
	}
	defer rows.Close()

	var out []*domain.Incident
	for rows.Next() {
		var (
			record                   domain.Incident
			kind, platform           sql.NullString
			authorID, excerpt        sql.NullString
			signals, triage, errText sql.NullString
			createdAt                sql.NullTime
		)

		if err := rows.Scan(
			&record.ID,
			&kind,
			&platform,
			&record.ChannelID,
			&record.MessageID,
			&authorID,
			&excerpt,
			&signals,
			&triage,
			&errText,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan incident: %w", err)
		}

		record.Kind = domain.IncidentKind(kind.String)
		record.Platform = domain.Platform(platform.String)
		record.AuthorID = authorID.String
		record.Excerpt = excerpt.String
		record.Signals = decodeSignals(signals.String)
		record.Triage = decodeTriage(triage.String)
		record.Error = errText.String
		record.CreatedAt = createdAt.Time

		out = append(out, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list incidents rows: %w", err)
	}

	return out, nil
}

func nullString(v string) interface{} {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func encodeSignals(values []domain.Signal) interface{} {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.String())
	}
	b, err := json.Marshal(names)
	if err != nil {
		return nil
	}
	return string(b)
}

func decodeSignals(raw string) []domain.Signal {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil
	}
	out := make([]domain.Signal, 0, len(names))
	for _, name := range names {
		if sig, ok := domain.ParseSignal(name); ok {
			out = append(out, sig)
		}
	}
	return out
}

func encodeTriage(sig *domain.Signal) interface{} {
	if sig == nil {
		return nil
	}
	return sig.String()
}

func decodeTriage(raw string) *domain.Signal {
	sig, ok := domain.ParseSignal(raw)
	if !ok {
		return nil
	}
	return &sig
}

var _ domain.IncidentRepository = (*IncidentStore)(nil)
