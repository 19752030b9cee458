package categorizer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/pkg/logger"
)

// =============================================================================
// Engine
// =============================================================================

// Config holds the engine's fixed construction-time configuration.
type Config struct {
	// SimilarityThreshold is the minimum score required to accept either
	// an exact or fuzzy match. Must be in [0.0, 1.0].
	SimilarityThreshold float64

	// DefaultCategory is assigned when no category clears the threshold.
	DefaultCategory string
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		DefaultCategory:     "sin_categoria",
	}
}

// Engine assigns messages to categories. It is stateless beyond its
// configuration and safe for concurrent use: every call only reads its
// own arguments.
type Engine struct {
	threshold       float64
	defaultCategory string
	log             *logger.Logger
}

// New creates a categorization engine. A threshold outside [0.0, 1.0]
// fails construction: a misconfigured threshold would silently change
// categorization behavior for every future call.
func New(cfg Config, log *logger.Logger) (*Engine, error) {
	if cfg.SimilarityThreshold < 0.0 || cfg.SimilarityThreshold > 1.0 {
		return nil, fmt.Errorf("similarity threshold must be in [0.0, 1.0], got %v", cfg.SimilarityThreshold)
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = DefaultConfig().DefaultCategory
	}
	if log == nil {
		log = logger.Default()
	}

	return &Engine{
		threshold:       cfg.SimilarityThreshold,
		defaultCategory: cfg.DefaultCategory,
		log:             log,
	}, nil
}

// DefaultCategory returns the configured fallback category name.
func (e *Engine) DefaultCategory() string {
	return e.defaultCategory
}

// SimilarityThreshold returns the configured acceptance threshold.
func (e *Engine) SimilarityThreshold() float64 {
	return e.threshold
}

// Categorize assigns messageText to one of the supplied categories.
// Exact keyword matching runs first; when it produces no candidate at or
// above the threshold the fuzzy stage is attempted. An empty message or
// empty category list short-circuits to the default category with 0.0.
func (e *Engine) Categorize(messageText string, categories []domain.Category) domain.CategorizationResult {
	if messageText == "" || len(categories) == 0 {
		return domain.CategorizationResult{Category: e.defaultCategory, ConfidenceScore: 0.0}
	}

	normalized := Normalize(messageText)
	words := wordSet(ExtractWords(normalized))

	if result, ok := e.findExactMatch(words, categories); ok {
		return result
	}

	if result, ok := e.findFuzzyMatch(normalized, categories); ok {
		return result
	}

	e.log.Debug("no category matched for message: %q", truncate(messageText, 50))
	return domain.CategorizationResult{Category: e.defaultCategory, ConfidenceScore: 0.0}
}

// findExactMatch scores each category by how many of its normalized
// keywords appear in the message word set (membership, not substring) and
// keeps the category with the strictly greatest match count; earlier
// categories win ties. The candidate is accepted only when its score
// clears the threshold.
//
// Known quirk, preserved on purpose: the denominator counts duplicate
// keywords, so duplicates depress the score, and the clamp to 1.0 guards
// the opposite direction. Changing either would silently alter
// categorization outcomes.
func (e *Engine) findExactMatch(words map[string]struct{}, categories []domain.Category) (domain.CategorizationResult, bool) {
	var best *domain.CategorizationResult
	maxMatches := 0

	for _, category := range categories {
		matches := 0
		for _, keyword := range category.Keywords {
			if _, ok := words[Normalize(keyword)]; ok {
				matches++
			}
		}

		if matches > maxMatches {
			maxMatches = matches
			confidence := math.Min(float64(matches)/float64(len(category.Keywords)), 1.0)
			best = &domain.CategorizationResult{
				Category:        category.Name,
				ConfidenceScore: confidence,
			}
		}
	}

	if best != nil && best.ConfidenceScore >= e.threshold {
		e.log.Info("exact match: %s (score: %.2f)", best.Category, best.ConfidenceScore)
		return *best, true
	}

	return domain.CategorizationResult{}, false
}

// findFuzzyMatch compares the normalized message against each category's
// joined, normalized keyword string and keeps the strictly greatest
// similarity ratio; earlier categories win ties. The candidate is accepted
// only when the ratio clears the threshold.
func (e *Engine) findFuzzyMatch(normalizedMessage string, categories []domain.Category) (domain.CategorizationResult, bool) {
	var best *domain.CategorizationResult
	maxSimilarity := 0.0

	for _, category := range categories {
		categoryText := Normalize(strings.Join(category.Keywords, " "))
		similarity := calculateSimilarity(normalizedMessage, categoryText)

		if similarity > maxSimilarity {
			maxSimilarity = similarity
			best = &domain.CategorizationResult{
				Category:        category.Name,
				ConfidenceScore: similarity,
			}
		}
	}

	if best != nil && best.ConfidenceScore >= e.threshold {
		e.log.Info("fuzzy match: %s (score: %.2f)", best.Category, best.ConfidenceScore)
		return *best, true
	}

	return domain.CategorizationResult{}, false
}

// Rank computes diagnostic scores for every category, independent of the
// threshold and of Categorize's early-return behavior. Each entry's score
// is max(exact, fuzzy); entries are sorted by score descending with input
// order preserved between equal scores.
func (e *Engine) Rank(messageText string, categories []domain.Category) []domain.CategoryScore {
	normalized := Normalize(messageText)
	words := wordSet(ExtractWords(normalized))

	scores := make([]domain.CategoryScore, 0, len(categories))
	for _, category := range categories {
		exact := 0.0
		if len(category.Keywords) > 0 {
			keywordSet := make(map[string]struct{}, len(category.Keywords))
			for _, keyword := range category.Keywords {
				keywordSet[Normalize(keyword)] = struct{}{}
			}
			intersection := 0
			for keyword := range keywordSet {
				if _, ok := words[keyword]; ok {
					intersection++
				}
			}
			exact = float64(intersection) / float64(len(category.Keywords))
		}

		categoryText := Normalize(strings.Join(category.Keywords, " "))
		fuzzy := calculateSimilarity(normalized, categoryText)

		scores = append(scores, domain.CategoryScore{
			Category:        category.Name,
			Score:           math.Max(exact, fuzzy),
			ExactMatches:    exact,
			FuzzySimilarity: fuzzy,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return scores
}

// calculateSimilarity wraps Ratio with the empty-input guard: comparing
// against (or from) nothing is no similarity, not full similarity.
func calculateSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return Ratio(a, b)
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
