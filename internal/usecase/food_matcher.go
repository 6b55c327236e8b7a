package usecase

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// Package-level compiled regex patterns for performance
var (
	labelSeparatorRegex = regexp.MustCompile(`[_\-/]+`)
	punctuationRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// Token weight categories for scoring
const (
	weightFood        = 3.0 // Core food terms (rice, chicken, curry)
	weightDescriptive = 2.0 // Preparation and variety terms (grilled, fried, brown)
	weightDefault     = 1.0 // Everything else
	fuzzyWeightFactor = 0.8 // Fuzzy matches get 80% of normal weight
)

const (
	substringMatchBonus = 10.0
	defaultMinScore     = 40.0
	maxQueryTokens      = 4
)

// foodTerms contains high-importance dish and ingredient keywords (weight 3.0)
var foodTerms = map[string]bool{
	// Proteins
	"chicken": true, "beef": true, "pork": true, "fish": true, "salmon": true,
	"turkey": true, "lamb": true, "shrimp": true, "tuna": true, "egg": true,
	"eggs": true, "tofu": true, "paneer": true, "lentils": true, "dal": true,
	// Grains and staples
	"rice": true, "bread": true, "pasta": true, "noodles": true, "oats": true,
	"oatmeal": true, "quinoa": true, "roti": true, "naan": true, "tortilla": true,
	"pancake": true, "pancakes": true, "waffle": true, "cereal": true, "bagel": true,
	// Produce
	"apple": true, "banana": true, "orange": true, "mango": true, "berries": true,
	"strawberry": true, "blueberry": true, "avocado": true, "broccoli": true,
	"spinach": true, "potato": true, "tomato": true, "carrot": true, "beans": true,
	"chickpeas": true, "salad": true,
	// Dairy
	"milk": true, "yogurt": true, "cheese": true, "butter": true,
	// Dishes
	"pizza": true, "burger": true, "sandwich": true, "soup": true, "curry": true,
	"stew": true, "burrito": true, "taco": true, "wrap": true, "sushi": true,
	"omelette": true, "smoothie": true, "biryani": true, "stir": true, "fry": true,
	// Snacks and sweets
	"nuts": true, "almonds": true, "chips": true, "cookie": true, "cake": true,
	"chocolate": true, "hummus": true, "popcorn": true, "granola": true,
}

// descriptiveTerms contains medium-importance descriptive keywords (weight 2.0)
var descriptiveTerms = map[string]bool{
	"grilled": true, "fried": true, "baked": true, "roasted": true, "steamed": true,
	"boiled": true, "scrambled": true, "poached": true, "raw": true, "fresh": true,
	"whole": true, "brown": true, "white": true, "greek": true, "plain": true,
	"spicy": true, "sweet": true, "sour": true, "creamy": true, "crispy": true,
	"vegan": true, "vegetable": true, "veggie": true, "mixed": true, "breast": true,
}

// matchStopWords are dropped before scoring and from search queries
var matchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "with": true, "for": true,
	"food": true, "dish": true, "plate": true, "bowl": true, "meal": true,
	"serving": true, "portion": true, "piece": true, "slice": true,
}

// MatchConfig holds configuration for the food matcher
type MatchConfig struct {
	MinScore          float64
	FuzzyEditDistance int
}

// FoodMatcher ties a recognizer label such as "grilled_chicken" to a catalog food
type FoodMatcher struct {
	minScore          float64
	fuzzyEditDistance int
	logger            *zap.Logger
}

// NewFoodMatcher creates a matcher. Zero values select a 40 point threshold and edit distance 1.
func NewFoodMatcher(config MatchConfig, log *zap.Logger) *FoodMatcher {
	threshold := config.MinScore
	if threshold <= 0 {
		threshold = defaultMinScore
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	return &FoodMatcher{
		minScore:          threshold,
		fuzzyEditDistance: fuzzyDist,
		logger:            logger.OrNop(log).Named("matcher"),
	}
}

// SearchQuery turns a label into catalog search text, most important words first
func (m *FoodMatcher) SearchQuery(label string) string {
	tokens := tokenize(label)

	sort.SliceStable(tokens, func(i, j int) bool {
		return tokenWeight(tokens[i]) > tokenWeight(tokens[j])
	})
	if len(tokens) > maxQueryTokens {
		tokens = tokens[:maxQueryTokens]
	}
	return strings.Join(tokens, " ")
}

// BestMatch scores every food name against the label and returns the highest scorer,
// or nil when none reaches the threshold. Ties keep the earlier food.
func (m *FoodMatcher) BestMatch(label string, foods []domain.FoodItem) (*domain.FoodItem, float64) {
	var best *domain.FoodItem
	highestScore := -1.0

	for i := range foods {
		score := m.score(label, foods[i].Name)
		if score > highestScore {
			highestScore = score
			best = &foods[i]
		}
	}

	if best == nil || highestScore < m.minScore {
		m.logger.Debug("no catalog match", zap.String("label", label), zap.Float64("best_score", highestScore))
		return nil, 0
	}

	m.logger.Debug("catalog match",
		zap.String("label", label),
		zap.String("food_id", best.ID),
		zap.Float64("score", highestScore))

	match := *best
	return &match, highestScore
}

// score computes a 0-100 similarity between a label and a food name.
// Label coverage weighs 60%, name coverage 20% and Jaccard overlap 20%,
// plus a bonus when one string contains the other.
func (m *FoodMatcher) score(label, name string) float64 {
	labelTokens := tokenize(label)
	nameTokens := tokenize(name)
	if len(labelTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	var matchedWeight, totalWeight float64
	matched := 0
	for _, lt := range labelTokens {
		w := tokenWeight(lt)
		totalWeight += w
		switch {
		case containsToken(nameTokens, lt):
			matchedWeight += w
			matched++
		case m.containsFuzzy(nameTokens, lt):
			matchedWeight += w * fuzzyWeightFactor
			matched++
		}
	}
	labelCoverage := matchedWeight / totalWeight

	nameMatched := 0
	for _, nt := range nameTokens {
		if containsToken(labelTokens, nt) || m.containsFuzzy(labelTokens, nt) {
			nameMatched++
		}
	}
	nameCoverage := float64(nameMatched) / float64(len(nameTokens))

	union := len(labelTokens) + len(nameTokens) - matched
	jaccard := 0.0
	if union > 0 {
		jaccard = float64(matched) / float64(union)
	}

	score := (labelCoverage*0.60 + nameCoverage*0.20 + jaccard*0.20) * 100

	labelText := strings.Join(labelTokens, " ")
	nameText := strings.Join(nameTokens, " ")
	if len(labelText) > 3 && (strings.Contains(nameText, labelText) || strings.Contains(labelText, nameText)) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (m *FoodMatcher) containsFuzzy(tokens []string, token string) bool {
	for _, t := range tokens {
		if fuzzyTokenMatch(t, token, m.fuzzyEditDistance) {
			return true
		}
	}
	return false
}

// tokenize splits a label or name into lowercase tokens without stop words or numbers
func tokenize(s string) []string {
	cleaned := labelSeparatorRegex.ReplaceAllString(strings.ToLower(s), " ")
	cleaned = punctuationRegex.ReplaceAllString(cleaned, " ")

	var tokens []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || matchStopWords[word] || isNumeric(word) || seen[word] {
			continue
		}
		seen[word] = true
		tokens = append(tokens, word)
	}
	return tokens
}

func tokenWeight(token string) float64 {
	switch {
	case foodTerms[token]:
		return weightFood
	case descriptiveTerms[token]:
		return weightDescriptive
	default:
		return weightDefault
	}
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold.
// Tokens shorter than 4 characters never match fuzzily.
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
