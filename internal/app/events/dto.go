package events

import (
	"time"

	"incidentBot/internal/domain"
)

// ChatMessageDTO is the serializable form of domain.Message published on the bus.
type ChatMessageDTO struct {
	Platform  string `json:"platform"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	IsBot     bool   `json:"is_bot"`
	Timestamp string `json:"timestamp"`
}

func NewChatMessageDTO(msg domain.Message) ChatMessageDTO {
	return ChatMessageDTO{
		Platform:  string(msg.Platform),
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Text:      msg.Text,
		IsBot:     msg.IsBot,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// IncidentDTO is the serializable form of domain.Incident, shared by the bus,
// the dashboard stream and the journal API.
type IncidentDTO struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Platform  string   `json:"platform"`
	ChannelID string   `json:"channel_id"`
	MessageID string   `json:"message_id"`
	AuthorID  string   `json:"author_id"`
	Excerpt   string   `json:"excerpt,omitempty"`
	Signals   []string `json:"signals"`
	Triage    string   `json:"triage,omitempty"`
	Error     string   `json:"error,omitempty"`
	CreatedAt string   `json:"created_at"`
}

func NewIncidentDTO(incident domain.Incident) IncidentDTO {
	signals := make([]string, 0, len(incident.Signals))
	for _, sig := range incident.Signals {
		signals = append(signals, sig.String())
	}

	dto := IncidentDTO{
		ID:        incident.ID,
		Kind:      string(incident.Kind),
		Platform:  string(incident.Platform),
		ChannelID: incident.ChannelID,
		MessageID: incident.MessageID,
		AuthorID:  incident.AuthorID,
		Excerpt:   incident.Excerpt,
		Signals:   signals,
		Error:     incident.Error,
		CreatedAt: incident.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if incident.Triage != nil {
		dto.Triage = incident.Triage.String()
	}
	return dto
}

// TopicFor returns the bus topic an incident of kind is published on.
func TopicFor(kind domain.IncidentKind) string {
	if kind == domain.IncidentTriaged {
		return TopicIncidentTriaged
	}
	return TopicIncidentSignalled
}
