package match

import (
	"sync"

	"github.com/google/uuid"
)

// ClaimSet tracks which identities have been consumed by a match. Claims
// replace in-place removal from shared pools: a claim attempt either wins
// atomically or loses to an earlier claimant, which keeps pass 1 safe to
// parallelize across ledger entries.
type ClaimSet struct {
	mu      sync.Mutex
	claimed map[uuid.UUID]struct{}
}

func NewClaimSet() *ClaimSet {
	return &ClaimSet{claimed: make(map[uuid.UUID]struct{})}
}

// Claim atomically claims id; false means someone already holds it.
func (c *ClaimSet) Claim(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.claimed[id]; taken {
		return false
	}
	c.claimed[id] = struct{}{}
	return true
}

// Claimed reports whether id has been claimed.
func (c *ClaimSet) Claimed(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, taken := c.claimed[id]
	return taken
}
