package referral

import (
	"context"

	"fxvest/internal/models"
	"fxvest/internal/repository"
)

// MaxLevels caps how far up and down the referral forest is ever traversed.
// Ancestors or descendants beyond level 3 are never rewarded or reported.
const MaxLevels = 3

// Graph answers ancestor/descendant queries over the referred_by forest.
// Links are set once at registration and never mutated, so no cycle
// detection is needed at traversal time.
type Graph struct {
	Repo repository.Repository
}

// Ancestor is one hop of a user's referrer chain. Level 1 is the direct
// referrer.
type Ancestor struct {
	Level int
	User  models.User
}

// Ancestors walks the referrer chain upward, at most maxLevels hops. A
// missing or dangling referrer link terminates the walk without error.
func (g *Graph) Ancestors(ctx context.Context, userID uint64, maxLevels int) ([]Ancestor, error) {
	if g == nil || g.Repo == nil || userID == 0 {
		return nil, nil
	}
	if maxLevels <= 0 || maxLevels > MaxLevels {
		maxLevels = MaxLevels
	}

	user, err := g.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	var chain []Ancestor
	current := user
	for level := 1; level <= maxLevels; level++ {
		if current.ReferredBy == nil {
			break
		}
		parent, err := g.Repo.GetUserByID(ctx, *current.ReferredBy)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		chain = append(chain, Ancestor{Level: level, User: *parent})
		current = parent
	}
	return chain, nil
}

// Descendants collects referred users level by level, breadth first.
// Index 0 of the result holds level-1 referrals, index 1 level-2, and so on;
// trailing empty levels are trimmed.
func (g *Graph) Descendants(ctx context.Context, userID uint64, maxLevels int) ([][]models.User, error) {
	if g == nil || g.Repo == nil || userID == 0 {
		return nil, nil
	}
	if maxLevels <= 0 || maxLevels > MaxLevels {
		maxLevels = MaxLevels
	}

	levels := make([][]models.User, 0, maxLevels)
	frontier := []uint64{userID}
	for level := 1; level <= maxLevels; level++ {
		var next []models.User
		for _, id := range frontier {
			children, err := g.Repo.ListUsersByReferrer(ctx, id)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		if len(next) == 0 {
			break
		}
		levels = append(levels, next)
		frontier = frontier[:0]
		for _, u := range next {
			frontier = append(frontier, u.ID)
		}
	}
	return levels, nil
}

// LevelCounts returns the number of referred users at levels 1..3.
func (g *Graph) LevelCounts(ctx context.Context, userID uint64) ([MaxLevels]int, error) {
	var counts [MaxLevels]int
	levels, err := g.Descendants(ctx, userID, MaxLevels)
	if err != nil {
		return counts, err
	}
	for i, users := range levels {
		counts[i] = len(users)
	}
	return counts, nil
}
