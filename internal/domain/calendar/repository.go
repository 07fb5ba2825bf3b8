package calendar

import "context"

// Repository owns the published calendar. Replace swaps a league's rows as
// one atomic unit; a concurrent reader observes either the full previous
// generation or the full next one, never a mixture. Replacing with an empty
// slice is a no-op that keeps the previous generation.
type Repository interface {
	Replace(ctx context.Context, leagueID string, entries []Entry) error
	ListByLeague(ctx context.Context, leagueID string) ([]Entry, error)
}
