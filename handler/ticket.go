package handler

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/guichet-bot/guichet/domain/model"
)

// openTicket crée le salon privé du ticket après une sélection dans le menu.
// Le scan anti-doublon est best-effort : deux sélections quasi simultanées
// peuvent toutes deux passer avant que l'un des salons n'existe.
func (h *Handler) openTicket(ic *discordgo.Interaction, categoryName string) error {
	category, ok := model.CategoryByName(categoryName)
	if !ok {
		return fmt.Errorf("unknown category: %s", categoryName)
	}
	user := ic.Member.User

	parent, err := h.ensureTicketCategory(ic.GuildID)
	if err != nil {
		return fmt.Errorf("ensureTicketCategory failed: %w", err)
	}

	channels, err := h.client.GuildChannels(ic.GuildID)
	if err != nil {
		return fmt.Errorf("GuildChannels failed: %w", err)
	}
	for _, channel := range channels {
		if channel.ParentID == parent.ID && strings.HasPrefix(channel.Name, ticketNamePrefix+user.ID) {
			return h.respondEphemeral(ic, "⚠️ Vous avez déjà un ticket ouvert !")
		}
	}

	role, err := h.findRoleByName(ic.GuildID, category.StaffRoleName)
	if err != nil {
		return fmt.Errorf("findRoleByName failed: %w", err)
	}

	// lecture refusée à tout le monde, autorisée au créateur et au rôle staff
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   ic.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	roleID := ""
	roleMention := ""
	if role != nil {
		roleID = role.ID
		roleMention = role.Mention()
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    role.ID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		})
	}

	ticket, err := h.client.GuildChannelCreateComplex(ic.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ticketNamePrefix + user.ID,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             parent.ID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return fmt.Errorf("GuildChannelCreateComplex failed: %w", err)
	}

	welcome := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎫 Ticket %s", category.Name),
		Description: fmt.Sprintf(
			"%s, bienvenue ! Un membre du support **%s** va vous répondre bientôt.",
			user.Mention(), category.Name,
		),
		Color: 0x00ff00,
	}
	if _, err := h.client.ChannelMessageSendComplex(ticket.ID, &discordgo.MessageSend{
		Content: roleMention,
		Embeds:  []*discordgo.MessageEmbed{welcome},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Claim",
						Style:    discordgo.SuccessButton,
						CustomID: claimButtonID(roleID, user.ID),
					},
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("ChannelMessageSendComplex failed: %w", err)
	}

	return h.respondEphemeral(ic, fmt.Sprintf("✅ Ticket créé : <#%s>", ticket.ID))
}

// claimButtonID encode le rôle staff et le créateur dans le custom ID du
// bouton : le claim reste fonctionnel après un redémarrage du bot.
func claimButtonID(roleID, creatorID string) string {
	return claimButtonPrefix + roleID + ":" + creatorID
}
