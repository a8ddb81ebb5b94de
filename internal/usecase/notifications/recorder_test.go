package notifications_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentBot/internal/app/events"
	"incidentBot/internal/domain"
	"incidentBot/internal/usecase/notifications"
)

type memoryRepo struct {
	saved []*domain.Incident
	err   error
}

func (m *memoryRepo) SaveIncident(_ context.Context, incident *domain.Incident) (*domain.Incident, error) {
	if m.err != nil {
		return nil, m.err
	}
	incident.ID = "generated"
	m.saved = append(m.saved, incident)
	return incident, nil
}

func (m *memoryRepo) ListIncidents(context.Context, int) ([]*domain.Incident, error) {
	return m.saved, nil
}

func TestRecorderSavesAndPublishes(t *testing.T) {
	repo := &memoryRepo{}
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(events.TopicIncidentSignalled)
	defer unsub()

	rec := notifications.NewRecorder(repo, bus, nil)
	err := rec.IncidentRecorded(context.Background(), domain.Incident{
		Kind:      domain.IncidentSignalled,
		MessageID: "m1",
		Signals:   domain.Signals(),
	})

	require.NoError(t, err)
	require.Len(t, repo.saved, 1)

	payload := <-ch
	dto, ok := payload.(events.IncidentDTO)
	require.True(t, ok)
	assert.Equal(t, "generated", dto.ID)
	assert.Equal(t, "m1", dto.MessageID)
}

func TestRecorderRoutesTriageToItsTopic(t *testing.T) {
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(events.TopicIncidentTriaged)
	defer unsub()

	triage := domain.SignalActioned
	rec := notifications.NewRecorder(nil, bus, nil)
	require.NoError(t, rec.IncidentRecorded(context.Background(), domain.Incident{Kind: domain.IncidentTriaged, Triage: &triage}))

	assert.Len(t, ch, 1)
}

func TestRecorderReturnsJournalFailure(t *testing.T) {
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(events.TopicIncidentSignalled)
	defer unsub()

	rec := notifications.NewRecorder(&memoryRepo{err: errors.New("locked")}, bus, nil)
	err := rec.IncidentRecorded(context.Background(), domain.Incident{Kind: domain.IncidentSignalled})

	assert.Error(t, err)
	assert.Empty(t, ch)
}
