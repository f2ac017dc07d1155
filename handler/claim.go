package handler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// claimTicket traite un clic sur le bouton Claim. Le bouton n'expire jamais :
// un nouveau claim écrase simplement le précédent (le dernier gagne).
func (h *Handler) claimTicket(ic *discordgo.Interaction, customID string) error {
	roleID, creatorID, ok := strings.Cut(strings.TrimPrefix(customID, claimButtonPrefix), ":")
	if !ok {
		return fmt.Errorf("malformed claim button ID: %s", customID)
	}

	if ic.Member.User.ID == creatorID {
		return h.respondEphemeral(ic, "⚠️ Vous ne pouvez pas claim votre propre ticket !")
	}
	if roleID != "" && !slices.Contains(ic.Member.Roles, roleID) {
		return h.respondEphemeral(ic, "⚠️ Seuls les membres du staff peuvent claim.")
	}

	h.claims.Claim(ic.ChannelID, memberDisplayName(ic.Member))
	return h.respondPublic(ic, fmt.Sprintf("✅ %s a pris en charge le ticket !", ic.Member.User.Mention()))
}
