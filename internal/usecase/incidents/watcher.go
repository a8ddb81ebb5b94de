// Package incidents signals incident reports posted in the incidents channel.
package incidents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"incidentBot/internal/domain"
)

// CommentPrefix marks a message that needs a manual reply. Such messages are
// skipped and must be deleted by a moderator.
const CommentPrefix = "#"

const excerptLimit = 200

type Config struct {
	ChannelID    string
	Signals      domain.SignalSet
	AllowedRoles domain.RoleSet
	Reactions    domain.ReactionPort
	Observer     domain.IncidentObserver
	Logger       *slog.Logger
}

type Watcher struct {
	channelID    string
	signals      domain.SignalSet
	allowedRoles domain.RoleSet
	reactions    domain.ReactionPort
	observer     domain.IncidentObserver
	log          *slog.Logger
	now          func() time.Time
}

func NewWatcher(cfg Config) (*Watcher, error) {
	if strings.TrimSpace(cfg.ChannelID) == "" {
		return nil, errors.New("incidents: empty channel id")
	}
	if cfg.Reactions == nil {
		return nil, errors.New("incidents: reaction port nil")
	}
	if cfg.Signals.Emoji(domain.SignalActioned) == "" {
		return nil, errors.New("incidents: signal set not configured")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		channelID:    cfg.ChannelID,
		signals:      cfg.Signals,
		allowedRoles: cfg.AllowedRoles,
		reactions:    cfg.Reactions,
		observer:     cfg.Observer,
		log:          logger.With("component", "incidents"),
		now:          time.Now,
	}, nil
}

// HandleMessage adds the signal reactions to msg when it is an incident
// report: posted in the incidents channel, by a human, and not prefixed with
// CommentPrefix. Role membership is not checked.
func (w *Watcher) HandleMessage(ctx context.Context, msg domain.Message) error {
	if msg.ChannelID != w.channelID || msg.IsBot {
		return nil
	}

	if strings.HasPrefix(msg.Text, CommentPrefix) {
		w.log.Debug("ignoring comment message", "message_id", msg.MessageID, "content", msg.Text)
		return nil
	}

	added, err := w.AddSignals(ctx, msg)
	w.report(ctx, domain.Incident{
		Kind:      domain.IncidentSignalled,
		Platform:  msg.Platform,
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		AuthorID:  msg.UserID,
		Excerpt:   excerpt(msg.Text),
		Signals:   added,
		Error:     errorText(err),
	})

	return err
}

// AddSignals attaches every signal emoji to msg, one call at a time and in
// declaration order. It stops at the first failure; reactions already added
// are left in place. The returned slice lists the signals that were attached.
func (w *Watcher) AddSignals(ctx context.Context, msg domain.Message) ([]domain.Signal, error) {
	added := make([]domain.Signal, 0, len(domain.Signals()))
	for _, sig := range domain.Signals() {
		emoji := w.signals.Emoji(sig)
		w.log.Debug("adding reaction", "message_id", msg.MessageID, "signal", sig.String(), "emoji", emoji)

		if err := w.reactions.AddReaction(ctx, msg.ChannelID, msg.MessageID, emoji); err != nil {
			return added, fmt.Errorf("incidents: add %s reaction to %s: %w", sig, msg.MessageID, err)
		}
		added = append(added, sig)
	}
	return added, nil
}

// HandleReaction records a moderator marking an incident with one of the
// signal emoji. Nothing is changed on the platform.
func (w *Watcher) HandleReaction(ctx context.Context, r domain.Reaction) error {
	if r.ChannelID != w.channelID || r.IsBot {
		return nil
	}

	sig, ok := w.signals.Lookup(r.Emoji)
	if !ok {
		return nil
	}

	if !w.allowedRoles.HasAny(r.RoleIDs) {
		w.log.Debug("signal reaction from non-moderator", "message_id", r.MessageID, "user_id", r.UserID, "signal", sig.String())
		return nil
	}

	w.log.Info("incident triaged", "message_id", r.MessageID, "user_id", r.UserID, "signal", sig.String())

	w.report(ctx, domain.Incident{
		Kind:      domain.IncidentTriaged,
		Platform:  r.Platform,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		AuthorID:  r.UserID,
		Triage:    &sig,
	})
	return nil
}

func (w *Watcher) report(ctx context.Context, incident domain.Incident) {
	if w.observer == nil {
		return
	}
	incident.CreatedAt = w.now().UTC()
	if err := w.observer.IncidentRecorded(ctx, incident); err != nil {
		w.log.Warn("recording incident failed", "message_id", incident.MessageID, "error", err)
	}
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit]) + "…"
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
