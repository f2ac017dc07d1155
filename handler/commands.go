package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// staffOnly vérifie que le salon est un ticket et que l'auteur tient un rôle
// présent dans les overwrites du salon avec accès en lecture (le rôle everyone
// exclu). C'est la seule règle d'autorisation des commandes staff.
func (h *Handler) staffOnly(m *discordgo.MessageCreate) error {
	channel, err := h.getChannel(m.ChannelID)
	if err != nil {
		return fmt.Errorf("getChannel failed: %w", err)
	}
	if channel.ParentID == "" {
		return ErrNotTicket
	}
	parent, err := h.getChannel(channel.ParentID)
	if err != nil {
		return fmt.Errorf("getChannel failed: %w", err)
	}
	if parent.Type != discordgo.ChannelTypeGuildCategory || parent.Name != ticketCategoryName {
		return ErrNotTicket
	}

	memberRoles, err := h.memberRoles(m)
	if err != nil {
		return fmt.Errorf("memberRoles failed: %w", err)
	}
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type != discordgo.PermissionOverwriteTypeRole || overwrite.ID == m.GuildID {
			continue
		}
		if overwrite.Allow&discordgo.PermissionViewChannel == 0 {
			continue
		}
		if slices.Contains(memberRoles, overwrite.ID) {
			return nil
		}
	}
	return ErrNotAuthorized
}

func (h *Handler) memberRoles(m *discordgo.MessageCreate) ([]string, error) {
	if m.Member != nil {
		return m.Member.Roles, nil
	}
	member, err := h.client.GuildMember(m.GuildID, m.Author.ID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (h *Handler) runStaffCommand(m *discordgo.MessageCreate, fn func() error) {
	if err := h.staffOnly(m); err != nil {
		switch {
		case errors.Is(err, ErrNotTicket):
			h.sendText(m.ChannelID, "⚠️ Ce salon n'est pas un ticket.")
		case errors.Is(err, ErrNotAuthorized):
			h.sendText(m.ChannelID, "⚠️ Vous n'avez pas la permission d'utiliser cette commande.")
		default:
			slog.Error("staffOnly failed", slog.Any("err", err))
		}
		return
	}
	if err := fn(); err != nil {
		slog.Error("staff command failed", slog.Any("err", err))
	}
}

// addMember accorde lecture+écriture à un membre sur le ticket courant.
func (h *Handler) addMember(m *discordgo.MessageCreate, arg string) error {
	targetID := ""
	if len(m.Mentions) > 0 {
		targetID = m.Mentions[0].ID
	} else {
		targetID = strings.Trim(arg, "<@!>")
	}
	if targetID == "" {
		h.sendText(m.ChannelID, "⚠️ Utilisation : +add @membre")
		return nil
	}

	if err := h.client.ChannelPermissionSet(
		m.ChannelID,
		targetID,
		discordgo.PermissionOverwriteTypeMember,
		discordgo.PermissionViewChannel|discordgo.PermissionSendMessages,
		0,
	); err != nil {
		return fmt.Errorf("ChannelPermissionSet failed: %w", err)
	}
	h.sendText(m.ChannelID, fmt.Sprintf("<@%s> a été ajouté au ticket.", targetID))
	return nil
}

// renameTicket renomme le salon, en minuscules.
func (h *Handler) renameTicket(m *discordgo.MessageCreate, newName string) error {
	if newName == "" {
		h.sendText(m.ChannelID, "⚠️ Utilisation : +rename <nouveau nom>")
		return nil
	}
	if _, err := h.client.ChannelEditComplex(m.ChannelID, &discordgo.ChannelEdit{
		Name: strings.ToLower(newName),
	}); err != nil {
		return fmt.Errorf("ChannelEditComplex failed: %w", err)
	}
	h.sendText(m.ChannelID, fmt.Sprintf("Le ticket a été renommé en : %s", newName))
	return nil
}

// closeTicket prévient, attend, puis supprime le salon. Pas d'annulation.
func (h *Handler) closeTicket(m *discordgo.MessageCreate) error {
	h.sendText(m.ChannelID, "⏳ Le ticket sera supprimé dans 5 secondes...")
	time.Sleep(h.closeDelay)
	if _, err := h.client.ChannelDelete(m.ChannelID); err != nil {
		return fmt.Errorf("ChannelDelete failed: %w", err)
	}
	h.claims.Forget(m.ChannelID)
	return nil
}
