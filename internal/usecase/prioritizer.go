package usecase

import (
	"sort"
	"time"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// Prioritize orders queue actions for display and processing. Ordering is
// fully deterministic: urgency rank first, then the configured category
// order, then earliest due date with undated actions last, then newest
// creation time, then id.
func Prioritize(actions []domain.RotationAction, now time.Time, categoryOrder []domain.Category) []domain.RotationAction {
	out := make([]domain.RotationAction, len(actions))
	copy(out, actions)

	position := make(map[domain.Category]int, len(categoryOrder))
	for i, cat := range categoryOrder {
		position[cat] = i
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if ra, rb := a.UrgencyRank(now), b.UrgencyRank(now); ra != rb {
			return ra < rb
		}

		if pa, pb := categoryPosition(position, a.Category), categoryPosition(position, b.Category); pa != pb {
			return pa < pb
		}

		if !a.DueAt.Equal(b.DueAt) {
			if a.DueAt.IsZero() {
				return false
			}
			if b.DueAt.IsZero() {
				return true
			}
			return a.DueAt.Before(b.DueAt)
		}

		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		return a.ID < b.ID
	})

	return out
}

func categoryPosition(position map[domain.Category]int, cat domain.Category) int {
	if p, ok := position[cat]; ok {
		return p
	}
	return len(position)
}
