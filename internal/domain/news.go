package domain

import "time"

// NewsItem is a core entity describing one candidate story fetched from a
// live source. Immutable once fetched.
type NewsItem struct {
	ID       string
	Title    string
	URL      string
	Source   string
	Points   int
	Comments int
	PostedAt time.Time
}

// ScoredNewsItem pairs a NewsItem with its relevance against the interest
// profile. Recomputed from the item, never mutated independently.
type ScoredNewsItem struct {
	NewsItem
	Relevance int
}

// InterestProfile holds the keyword tiers used for relevance scoring.
// Loaded once per run and treated as immutable.
type InterestProfile struct {
	High    []string
	Medium  []string
	Low     []string
	Exclude []string
}

// Draft is a generated article prior to persistence, tagged with the model
// that produced it.
type Draft struct {
	Text  string
	Item  ScoredNewsItem
	Model string
}

// PublishResult captures one platform's independent publish outcome.
type PublishResult struct {
	Success bool
	// URL assigned by the platform, or its publish dashboard for staged posts.
	URL string
	// Method distinguishes how the content reached the platform
	// ("api", "browser", "manual").
	Method string
	Err    string
}
