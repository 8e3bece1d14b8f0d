package scoring

import (
	"strings"

	"ArticlePress/internal/domain"
)

// Tier weights and popularity thresholds for relevance scoring.
const (
	highWeight   = 3
	mediumWeight = 2
	lowWeight    = 1
	excludeDrop  = 5

	hotThreshold    = 100
	viralThreshold  = 300
	popularityBonus = 1
)

// Score rates a news item 0-10 against the interest profile.
// Each tier contributes at most once (first configured keyword wins within a
// tier; ties among synonyms are a don't-care). The exclusion list subtracts
// once, the popularity bonus stacks up to +2, and the result is clamped.
func Score(item domain.NewsItem, profile domain.InterestProfile) int {
	title := strings.ToLower(item.Title)
	score := 0

	if matchesAny(title, profile.High) {
		score += highWeight
	}
	if matchesAny(title, profile.Medium) {
		score += mediumWeight
	}
	if matchesAny(title, profile.Low) {
		score += lowWeight
	}
	if matchesAny(title, profile.Exclude) {
		score -= excludeDrop
	}

	if item.Points > hotThreshold {
		score += popularityBonus
	}
	if item.Points > viralThreshold {
		score += popularityBonus
	}

	return clamp(score, 0, 10)
}

func matchesAny(title string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
