// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders a candidate's hashtags for posting: trending tags
// lead, then niche and brand tags, then the rest.
package rank

import (
	"strings"

	"github.com/meshint/postcraft/pkg/types"
)

const maxHashtags = 12

var brandWords = []string{"game", "oyun", "mobile", "mobil"}
var nicheWords = []string{"rpg", "mmo", "pvp", "fps", "strategy"}

// Rank orders hashtags: up to 3 trending, then up to 2 niche, then up to 2
// brand, then general tags and any leftovers, capped at 12. The input slice
// is not modified and every output tag comes from the input. Trending
// membership and output dedup are case-insensitive; the first-seen casing
// wins. A tag with both a brand and a niche word counts as brand.
func Rank(hashtags []string, trend types.TrendBundle) []string {
	trending := map[string]bool{}
	for i, tag := range trend.Hashtags {
		if i >= 10 {
			break
		}
		trending[strings.ToLower(tag)] = true
	}

	var trendTags, brandTags, nicheTags, generalTags []string
	for _, tag := range hashtags {
		lower := strings.ToLower(tag)
		switch {
		case trending[lower]:
			trendTags = append(trendTags, tag)
		case containsAny(lower, brandWords):
			brandTags = append(brandTags, tag)
		case containsAny(lower, nicheWords):
			nicheTags = append(nicheTags, tag)
		default:
			generalTags = append(generalTags, tag)
		}
	}

	// Dedup is case-insensitive; the first-seen casing wins.
	var ordered []string
	used := map[string]bool{}
	take := func(tags []string, limit int) {
		for _, tag := range tags {
			if limit == 0 {
				break
			}
			lower := strings.ToLower(tag)
			if !used[lower] {
				ordered = append(ordered, tag)
				used[lower] = true
				if limit > 0 {
					limit--
				}
			}
		}
	}

	take(trendTags, 3)
	take(nicheTags, 2)
	take(brandTags, 2)
	take(generalTags, -1)
	take(hashtags, -1)

	if len(ordered) > maxHashtags {
		ordered = ordered[:maxHashtags]
	}
	return ordered
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
