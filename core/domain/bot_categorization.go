package domain

// =============================================================================
// Categorization Results
// =============================================================================

// CategorizationResult is the outcome of categorizing a single message:
// either a category name with the score that cleared the threshold, or
// the configured default category with score 0.0.
type CategorizationResult struct {
	Category        string  `json:"category"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// CategoryScore is a per-category diagnostic score entry produced by the
// ranking operation. Score is always max(ExactMatches, FuzzySimilarity).
type CategoryScore struct {
	Category        string  `json:"category"`
	Score           float64 `json:"score"`
	ExactMatches    float64 `json:"exact_matches"`
	FuzzySimilarity float64 `json:"fuzzy_similarity"`
}
