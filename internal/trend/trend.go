// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trend scores keywords by recent search interest and derives
// hashtag suggestions. The stage never fails: when the interest provider is
// unavailable it falls back to deterministic scoring.
package trend

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/meshint/postcraft/pkg/types"
)

// Scoring blend: recent interest dominates monthly interest.
const (
	weightWeek  = 0.7
	weightMonth = 0.3

	maxKeywords    = 50
	maxTopKeywords = 15
	maxHashtags    = 20
)

// sampleKeywords substitute for a missing or unreadable keyword file.
var sampleKeywords = []string{
	"mobile game", "rpg", "action", "adventure", "strategy",
	"puzzle", "casual", "multiplayer", "online", "battle",
}

// defaultHashtags are returned when the whole stage degrades.
var defaultHashtags = []string{"#mobilegame", "#gaming", "#game", "#play", "#fun"}

var (
	// Unicode classes so Turkish keywords survive normalization.
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Analyze reads the keyword file, scores the keywords, and derives hashtags.
// It always returns a bundle with Status "success"; provider failures are
// recorded in Error and scored with the fallback.
func Analyze(ctx context.Context, keywordPath string, provider Provider, cfg types.TrendConfig, w io.Writer) types.TrendBundle {
	keywords := readKeywords(keywordPath, w)
	normalized := normalizeKeywords(keywords)
	fmt.Fprintf(w, "  normalized %d keywords\n", len(normalized))

	scored, provErr := scoreKeywords(ctx, normalized, provider, cfg, w)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxTopKeywords {
		scored = scored[:maxTopKeywords]
	}

	hashtags := generateHashtags(scored)
	fmt.Fprintf(w, "  scored %d keywords, %d hashtags\n", len(scored), len(hashtags))

	bundle := types.TrendBundle{
		Status:           "success",
		KeywordsAnalyzed: len(normalized),
		TopKeywords:      scored,
		Hashtags:         hashtags,
		Summary: fmt.Sprintf("Analyzed %d keywords, identified %d trending terms, generated %d hashtags",
			len(normalized), len(scored), len(hashtags)),
	}
	if provErr != nil {
		bundle.Error = provErr.Error()
	}
	if len(bundle.Hashtags) == 0 {
		bundle.Hashtags = append([]string{}, defaultHashtags...)
		bundle.Summary = "Trend analysis degraded, using default hashtags"
	}
	return bundle
}

// readKeywords loads the keyword file, splitting on commas when present and
// newlines otherwise. A missing file yields the sample keyword set.
func readKeywords(path string, w io.Writer) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  warning: could not read keywords file: %v, using samples\n", err)
		return append([]string{}, sampleKeywords...)
	}
	content := string(data)
	if strings.Contains(content, ",") {
		return strings.Split(content, ",")
	}
	return strings.Split(content, "\n")
}

// normalizeKeywords lowercases, strips punctuation, collapses whitespace, and
// drops short entries. At most the first 50 raw keywords are considered.
func normalizeKeywords(keywords []string) []string {
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	var out []string
	for _, kw := range keywords {
		cleaned := strings.ToLower(strings.TrimSpace(kw))
		cleaned = nonWordRe.ReplaceAllString(cleaned, "")
		cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
		cleaned = strings.TrimSpace(cleaned)
		if len([]rune(cleaned)) > 2 {
			out = append(out, cleaned)
		}
	}
	return out
}

// scoreKeywords scores in batches through the provider, falling back per
// batch on errors. A nil provider scores everything with the fallback.
func scoreKeywords(ctx context.Context, keywords []string, provider Provider, cfg types.TrendConfig, w io.Writer) ([]types.KeywordScore, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if provider == nil {
		fmt.Fprintf(w, "  interest provider unavailable, using fallback scoring\n")
		return fallbackAll(keywords), fmt.Errorf("interest provider unavailable")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	var scores []types.KeywordScore
	var firstErr error
	for i := 0; i < len(keywords); i += batchSize {
		end := i + batchSize
		if end > len(keywords) {
			end = len(keywords)
		}
		batch := keywords[i:end]

		batchScores, err := scoreBatch(ctx, batch, provider, cfg)
		if err != nil {
			fmt.Fprintf(w, "  warning: interest lookup failed for batch %v: %v\n", batch, err)
			if firstErr == nil {
				firstErr = err
			}
			scores = append(scores, fallbackAll(batch)...)
			continue
		}
		scores = append(scores, batchScores...)

		if end < len(keywords) && cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return scores, ctx.Err()
			case <-time.After(cfg.BatchDelay):
			}
		}
	}
	return scores, firstErr
}

func scoreBatch(ctx context.Context, batch []string, provider Provider, cfg types.TrendConfig) ([]types.KeywordScore, error) {
	week, err := provider.Interest(ctx, batch, TimeframeWeek, cfg.Geo)
	if err != nil {
		return nil, err
	}
	month, err := provider.Interest(ctx, batch, TimeframeMonth, cfg.Geo)
	if err != nil {
		return nil, err
	}

	scores := make([]types.KeywordScore, 0, len(batch))
	for _, kw := range batch {
		score := weightWeek*mean(week[kw]) + weightMonth*mean(month[kw])
		scores = append(scores, types.KeywordScore{
			Keyword: kw,
			Score:   score,
			Source:  types.ScoreProvider,
		})
	}
	return scores, nil
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

func fallbackAll(keywords []string) []types.KeywordScore {
	scores := make([]types.KeywordScore, 0, len(keywords))
	for _, kw := range keywords {
		scores = append(scores, types.KeywordScore{
			Keyword: kw,
			Score:   fallbackScore(kw),
			Source:  types.ScoreFallback,
		})
	}
	return scores
}

var gamingTerms = []string{"game", "play", "mobile", "online", "rpg", "fps", "mmo", "pvp"}

// fallbackScore ranks a keyword deterministically from its surface
// properties: shorter keywords and common gaming terms score higher, with a
// small alphabetical spread so ties stay stable.
func fallbackScore(keyword string) float64 {
	score := 50.0

	n := len([]rune(keyword))
	switch {
	case n <= 5:
		score += 20
	case n <= 8:
		score += 10
	}

	for _, term := range gamingTerms {
		if strings.Contains(keyword, term) {
			score += 15
			break
		}
	}

	runes := []rune(keyword)
	if len(runes) > 0 {
		score += float64(runes[0]-'a') * 0.5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// generateHashtags derives hashtag variations from the scored keywords.
// Higher scores earn more variations. Output preserves insertion order and
// is capped at 20.
func generateHashtags(scored []types.KeywordScore) []string {
	var ordered []string
	seen := map[string]bool{}
	add := func(tag string) {
		if !seen[tag] && len(ordered) < maxHashtags {
			seen[tag] = true
			ordered = append(ordered, tag)
		}
	}

	for _, ks := range scored {
		clean := strings.NewReplacer(" ", "", "-", "").Replace(ks.Keyword)
		if clean == "" {
			continue
		}
		add("#" + clean)
		if ks.Score > 50 {
			add("#" + clean + "game")
			add("#mobile" + clean)
		}
		if ks.Score > 70 {
			add("#" + clean + "gaming")
			add("#" + clean + "tr")
		}
		if len(ordered) >= maxHashtags {
			break
		}
	}
	return ordered
}
