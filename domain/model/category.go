package model

// Catégorie de support affichée dans le panel
type CategoryDefinition struct {
	Name          string
	Emoji         string
	StaffRoleName string
	Description   string
}

var categories = []CategoryDefinition{
	{Name: "Middleman", Emoji: "💰", StaffRoleName: "Middleman Trusted", Description: "Expliquez clairement votre trade."},
	{Name: "Owner", Emoji: "🛡️", StaffRoleName: "Gestion Owner", Description: "Problème important, un Owner va vous répondre."},
	{Name: "Partenariat", Emoji: "🤝", StaffRoleName: "Gérant partenariat", Description: "Merci de détailler votre demande de partenariat."},
	{Name: "Abuse", Emoji: "🚨", StaffRoleName: "Gestion abuse", Description: "Décrivez précisément l'abus rencontré."},
}

// Categories returns the registry in declaration order.
func Categories() []CategoryDefinition {
	return categories
}

func CategoryByName(name string) (CategoryDefinition, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryDefinition{}, false
}
