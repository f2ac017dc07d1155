package model

import "sync"

// ClaimBoard retient qui a pris en charge quel ticket (volatile, perdu au
// redémarrage). Le dernier claim gagne : il n'y a pas de garde
// claim-if-absent, seulement la protection mémoire de la map.
type ClaimBoard struct {
	mu     sync.RWMutex
	owners map[string]string
}

func NewClaimBoard() *ClaimBoard {
	return &ClaimBoard{owners: map[string]string{}}
}

// Claim records ownerName for the ticket channel, overwriting any prior claim.
func (b *ClaimBoard) Claim(channelID, ownerName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owners[channelID] = ownerName
}

func (b *ClaimBoard) Owner(channelID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	name, ok := b.owners[channelID]
	return name, ok
}

// Forget drops the claim record once its channel has been deleted.
func (b *ClaimBoard) Forget(channelID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.owners, channelID)
}
