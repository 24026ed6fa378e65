package domain

import "strings"

// AccountPool is the rotating stack of account ids handed to new sessions.
// The last element is the next one to be assigned.
type AccountPool []AccountID

func NewAccountPool(ids []AccountID) AccountPool {
	pool := make(AccountPool, len(ids))
	copy(pool, ids)
	return pool
}

// Pop removes and returns the last id. An empty pool is refilled from
// defaults first.
func (p *AccountPool) Pop(defaults []AccountID) (AccountID, error) {
	if p == nil {
		return "", ErrEmptyAccountPool
	}
	if len(*p) == 0 {
		*p = NewAccountPool(defaults)
	}
	if len(*p) == 0 {
		return "", ErrEmptyAccountPool
	}

	last := len(*p) - 1
	id := (*p)[last]
	*p = (*p)[:last]

	return id, nil
}

func (p AccountPool) Strings() []string {
	out := make([]string, 0, len(p))
	for _, id := range p {
		out = append(out, string(id))
	}
	return out
}

func AccountPoolFromStrings(raw []string) AccountPool {
	pool := make(AccountPool, 0, len(raw))
	for _, id := range raw {
		pool = append(pool, AccountID(id))
	}
	return pool
}

func NormalizeAccountIDs(ids []string) []AccountID {
	out := make([]AccountID, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		out = append(out, AccountID(trimmed))
	}
	return out
}
