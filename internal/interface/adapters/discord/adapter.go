// Package discordadapter connects the bot to the Discord gateway.
package discordadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"incidentBot/internal/domain"
)

type Config struct {
	Token string
}

type MessageHandler func(ctx context.Context, msg domain.Message) error
type ReactionHandler func(ctx context.Context, r domain.Reaction) error

// reactionClient is the part of *discordgo.Session used to add reactions.
type reactionClient interface {
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

type Adapter struct {
	cfg Config
	log *slog.Logger

	mu              sync.RWMutex
	handler         MessageHandler
	reactionHandler ReactionHandler
	session         *discordgo.Session
	client          reactionClient
	selfID          string
	ctx             context.Context
}

func NewAdapter(cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		cfg: cfg,
		log: logger.With("component", "discord"),
		ctx: context.Background(),
	}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

func (a *Adapter) SetReactionHandler(h ReactionHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reactionHandler = h
}

// Start opens the gateway session and blocks until ctx is cancelled.
func (a *Adapter) Start(ctx context.Context) error {
	token := strings.TrimSpace(a.cfg.Token)
	if token == "" {
		return errors.New("discord: empty bot token")
	}
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		return fmt.Errorf("discord: new session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMessageReactions

	session.AddHandler(a.onReady)
	session.AddHandler(a.onMessageCreate)
	session.AddHandler(a.onReactionAdd)

	a.mu.Lock()
	a.ctx = ctx
	a.session = session
	a.client = session
	a.mu.Unlock()

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}

	a.log.Info("connected to gateway")

	<-ctx.Done()

	a.mu.Lock()
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			a.log.Warn("closing session", "error", err)
		}
		a.session = nil
		a.client = nil
	}
	a.mu.Unlock()

	return ctx.Err()
}

// AddReaction attaches emoji to a message. emoji is a unicode emoji or a
// custom one in "name:id" form.
func (a *Adapter) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	a.mu.RLock()
	client := a.client
	a.mu.RUnlock()

	if client == nil {
		return errors.New("discord: session not open")
	}

	if err := client.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: add reaction %s to %s: %w", emoji, messageID, err)
	}
	return nil
}

func (a *Adapter) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r == nil || r.User == nil {
		return
	}
	a.mu.Lock()
	a.selfID = r.User.ID
	a.mu.Unlock()
	a.log.Info("ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (a *Adapter) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}

	a.mu.RLock()
	handler := a.handler
	ctx := a.ctx
	a.mu.RUnlock()
	if handler == nil {
		return
	}

	msg := mapMessageToDomain(m.Message)
	if err := handler(ctx, msg); err != nil {
		a.log.Error("message handler failed", "channel_id", msg.ChannelID, "message_id", msg.MessageID, "error", err)
	}
}

func (a *Adapter) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r == nil || r.MessageReaction == nil {
		return
	}

	a.mu.RLock()
	handler := a.reactionHandler
	ctx := a.ctx
	selfID := a.selfID
	a.mu.RUnlock()
	if handler == nil {
		return
	}

	reaction := mapReactionToDomain(r, selfID)
	if err := handler(ctx, reaction); err != nil {
		a.log.Error("reaction handler failed", "channel_id", reaction.ChannelID, "message_id", reaction.MessageID, "error", err)
	}
}

func mapMessageToDomain(m *discordgo.Message) domain.Message {
	msg := domain.Message{
		Platform:  domain.PlatformDiscord,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Text:      m.Content,
	}

	if m.Author != nil {
		msg.UserID = m.Author.ID
		msg.Username = m.Author.Username
		msg.IsBot = m.Author.Bot
	}
	if m.Member != nil {
		msg.RoleIDs = append([]string(nil), m.Member.Roles...)
	}

	return msg
}

func mapReactionToDomain(r *discordgo.MessageReactionAdd, selfID string) domain.Reaction {
	reaction := domain.Reaction{
		Platform:  domain.PlatformDiscord,
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
		IsBot:     selfID != "" && r.UserID == selfID,
	}

	if r.Member != nil {
		reaction.RoleIDs = append([]string(nil), r.Member.Roles...)
		if r.Member.User != nil && r.Member.User.Bot {
			reaction.IsBot = true
		}
	}

	return reaction
}

var _ domain.ReactionPort = (*Adapter)(nil)
