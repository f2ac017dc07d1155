package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guichet-bot/guichet/domain/infra"
	"github.com/guichet-bot/guichet/domain/model"
	"github.com/jellydator/ttlcache/v3"
)

const (
	commandPrefix      = "+"
	ticketCategoryName = "Tickets"
	ticketNamePrefix   = "ticket-"

	categorySelectID  = "ticket_category_select"
	claimButtonPrefix = "ticket_claim:"

	cmdSetupPanel = "setuppanel"
	cmdAdd        = "add"
	cmdRename     = "rename"
	cmdClose      = "fermer"
)

var (
	ErrNotTicket     = errors.New("channel is not a ticket")
	ErrNotAuthorized = errors.New("user is not ticket staff")
)

type Handler struct {
	client       infra.DiscordAPI
	session      *discordgo.Session
	roleCache    *ttlcache.Cache[string, []*discordgo.Role]
	channelCache *ttlcache.Cache[string, *discordgo.Channel]
	claims       *model.ClaimBoard
	closeDelay   time.Duration
	confirmTTL   time.Duration
}

func NewHandler() (*Handler, error) {
	session, err := discordgo.New("Bot " + os.Getenv("DISCORD_BOT_TOKEN"))
	if err != nil {
		return nil, fmt.Errorf("discordgo.New failed: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	h := &Handler{
		client:       session,
		session:      session,
		roleCache:    ttlcache.New(ttlcache.WithTTL[string, []*discordgo.Role](time.Hour)),
		channelCache: ttlcache.New(ttlcache.WithTTL[string, *discordgo.Channel](time.Minute)),
		claims:       model.NewClaimBoard(),
		closeDelay:   5 * time.Second,
		confirmTTL:   10 * time.Second,
	}
	go h.roleCache.Start()
	go h.channelCache.Start()
	return h, nil
}

func (h *Handler) Handle() error {
	h.session.AddHandler(h.onMessageCreate)
	h.session.AddHandler(h.onInteractionCreate)

	if err := h.session.Open(); err != nil {
		return fmt.Errorf("session open failed: %w", err)
	}
	defer func() {
		if err := h.session.Close(); err != nil {
			slog.Error("session close failed", slog.Any("err", err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

func (h *Handler) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(m.Content, commandPrefix), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case cmdSetupPanel:
		if err := h.setupPanel(m); err != nil {
			slog.Error("setupPanel failed", slog.Any("err", err))
		}
	case cmdAdd:
		h.runStaffCommand(m, func() error { return h.addMember(m, arg) })
	case cmdRename:
		h.runStaffCommand(m, func() error { return h.renameTicket(m, arg) })
	case cmdClose:
		h.runStaffCommand(m, func() error { return h.closeTicket(m) })
	}
}

func (h *Handler) onInteractionCreate(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionMessageComponent || ic.Member == nil {
		return
	}
	data := ic.MessageComponentData()
	switch {
	case data.CustomID == categorySelectID:
		if len(data.Values) < 1 {
			return
		}
		if err := h.openTicket(ic.Interaction, data.Values[0]); err != nil {
			slog.Error("openTicket failed", slog.Any("err", err))
		}
	case strings.HasPrefix(data.CustomID, claimButtonPrefix):
		if err := h.claimTicket(ic.Interaction, data.CustomID); err != nil {
			slog.Error("claimTicket failed", slog.Any("err", err))
		}
	}
}

func (h *Handler) getChannel(channelID string) (*discordgo.Channel, error) {
	if item := h.channelCache.Get(channelID); item != nil {
		return item.Value(), nil
	}
	channel, err := h.client.Channel(channelID)
	if err != nil {
		return nil, err
	}
	h.channelCache.Set(channelID, channel, ttlcache.DefaultTTL)
	return channel, nil
}

func (h *Handler) getRoles(guildID string) ([]*discordgo.Role, error) {
	cacheKey := "roles_" + guildID
	if item := h.roleCache.Get(cacheKey); item != nil {
		return item.Value(), nil
	}
	roles, err := h.client.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	h.roleCache.Set(cacheKey, roles, ttlcache.DefaultTTL)
	return roles, nil
}

func (h *Handler) findRoleByName(guildID, name string) (*discordgo.Role, error) {
	roles, err := h.getRoles(guildID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (h *Handler) sendText(channelID, text string) {
	if _, err := h.client.ChannelMessageSend(channelID, text); err != nil {
		slog.Error("ChannelMessageSend failed", slog.Any("err", err))
	}
}

func (h *Handler) respondEphemeral(ic *discordgo.Interaction, text string) error {
	return h.client.InteractionRespond(ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *Handler) respondPublic(ic *discordgo.Interaction, text string) error {
	return h.client.InteractionRespond(ic, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
		},
	})
}

func memberDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
