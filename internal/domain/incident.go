package domain

import (
	"context"
	"time"
)

type IncidentKind string

const (
	IncidentSignalled IncidentKind = "signalled"
	IncidentTriaged   IncidentKind = "triaged"
)

// Incident is one journal entry: either the outcome of signalling a report or
// a moderator marking it with a signal.
type Incident struct {
	ID        string
	Kind      IncidentKind
	Platform  Platform
	ChannelID string
	MessageID string
	AuthorID  string
	Excerpt   string
	Signals   []Signal
	Triage    *Signal
	Error     string
	CreatedAt time.Time
}

type IncidentRepository interface {
	SaveIncident(ctx context.Context, incident *Incident) (*Incident, error)
	ListIncidents(ctx context.Context, limit int) ([]*Incident, error)
}
