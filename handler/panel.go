package handler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guichet-bot/guichet/domain/model"
)

// limite imposée par Discord sur la description d'une option
const optionDescriptionLimit = 100

// setupPanel publie le panneau de sélection des catégories. Le menu garde un
// custom ID constant : il reste cliquable après un redémarrage du bot.
func (h *Handler) setupPanel(m *discordgo.MessageCreate) error {
	perms, err := h.client.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return fmt.Errorf("UserChannelPermissions failed: %w", err)
	}
	if perms&discordgo.PermissionAdministrator == 0 {
		h.sendText(m.ChannelID, "⚠️ Cette commande est réservée aux administrateurs.")
		return nil
	}

	if _, err := h.ensureTicketCategory(m.GuildID); err != nil {
		return fmt.Errorf("ensureTicketCategory failed: %w", err)
	}

	roles, err := h.getRoles(m.GuildID)
	if err != nil {
		return fmt.Errorf("getRoles failed: %w", err)
	}

	if _, err := h.client.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{panelEmbed(roles)},
		Components: []discordgo.MessageComponent{categoryMenu()},
	}); err != nil {
		return fmt.Errorf("ChannelMessageSendComplex failed: %w", err)
	}

	if err := h.client.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		slog.Error("ChannelMessageDelete failed", slog.Any("err", err))
	}

	confirmation, err := h.client.ChannelMessageSend(
		m.ChannelID,
		fmt.Sprintf("✅ Panel envoyé par %s", m.Author.Mention()),
	)
	if err != nil {
		return fmt.Errorf("ChannelMessageSend failed: %w", err)
	}
	time.AfterFunc(h.confirmTTL, func() {
		if err := h.client.ChannelMessageDelete(m.ChannelID, confirmation.ID); err != nil {
			slog.Error("failed to delete confirmation message", slog.Any("err", err))
		}
	})
	return nil
}

func panelEmbed(roles []*discordgo.Role) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📄 Centre de Support",
		Description: "Besoin d'aide ? Sélectionnez la catégorie ci-dessous.",
		Color:       0x2f3136,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "⚡ Merci de ne pas ouvrir plusieurs tickets.",
		},
	}
	for _, category := range model.Categories() {
		mention := "@" + category.StaffRoleName
		for _, role := range roles {
			if role.Name == category.StaffRoleName {
				mention = role.Mention()
				break
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s %s", category.Emoji, category.Name),
			Value: fmt.Sprintf("%s\nRôle pingable : %s", category.Description, mention),
		})
	}
	return embed
}

func categoryMenu() discordgo.MessageComponent {
	var options []discordgo.SelectMenuOption
	for _, category := range model.Categories() {
		options = append(options, discordgo.SelectMenuOption{
			Label:       category.Name,
			Value:       category.Name,
			Description: truncate(category.Description, optionDescriptionLimit),
			Emoji:       &discordgo.ComponentEmoji{Name: category.Emoji},
		})
	}
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    categorySelectID,
				Placeholder: "Sélectionnez la catégorie...",
				Options:     options,
			},
		},
	}
}

// ensureTicketCategory renvoie la catégorie "Tickets", en la créant au besoin.
func (h *Handler) ensureTicketCategory(guildID string) (*discordgo.Channel, error) {
	channels, err := h.client.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("GuildChannels failed: %w", err)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == ticketCategoryName {
			return channel, nil
		}
	}
	category, err := h.client.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: ticketCategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("GuildChannelCreateComplex failed: %w", err)
	}
	return category, nil
}
