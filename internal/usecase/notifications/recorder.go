package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"incidentBot/internal/app/events"
	"incidentBot/internal/domain"
)

// Publisher is the subset of events.Bus the recorder needs.
type Publisher interface {
	Publish(topic string, payload any)
}

// Recorder centralizes what happens to an incident outcome once the watcher is
// done with it: journal, bus, and one JSON log line.
type Recorder struct {
	repo domain.IncidentRepository
	pub  Publisher
	log  *slog.Logger
}

func NewRecorder(repo domain.IncidentRepository, pub Publisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		repo: repo,
		pub:  pub,
		log:  logger.With("component", "notifications"),
	}
}

func (r *Recorder) IncidentRecorded(ctx context.Context, incident domain.Incident) error {
	if r.repo != nil {
		saved, err := r.repo.SaveIncident(ctx, &incident)
		if err != nil {
			return fmt.Errorf("notifications: save incident: %w", err)
		}
		incident = *saved
	}

	dto := events.NewIncidentDTO(incident)
	if r.pub != nil {
		r.pub.Publish(events.TopicFor(incident.Kind), dto)
	}

	r.logPayload(dto)
	return nil
}

func (r *Recorder) logPayload(dto events.IncidentDTO) {
	data, err := json.Marshal(dto)
	if err != nil {
		r.log.Info("incident", "kind", dto.Kind, "message_id", dto.MessageID)
		return
	}
	r.log.Info("incident", "kind", dto.Kind, "payload", string(data))
}

var _ domain.IncidentObserver = (*Recorder)(nil)
