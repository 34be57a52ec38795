// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate cleans post candidates against platform limits and
// normalizes images to the Instagram story format.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meshint/postcraft/pkg/types"
)

// Platform text limits.
const (
	titleMax   = 60
	captionMax = 2200
	hashtagMax = 12
	hashtagMin = 5
)

// genericTags pad candidate hashtags up to the minimum.
var genericTags = []string{"#gaming", "#mobilegame", "#game", "#oyun", "#mobile"}

// Unicode classes so Turkish hashtags survive cleanup.
var hashtagCleanRe = regexp.MustCompile(`[^#\p{L}\p{N}_]`)

var bannedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(spam|scam|hack|cheat|crack)\b`),
	regexp.MustCompile(`(?i)(http|https|www\.|bit\.ly)`),
	regexp.MustCompile(`(?i)@\w{15,}`),
}

// ValidateText cleans one candidate: trims and truncates the title and
// caption, normalizes hashtags, and records every issue found. Running it on
// already-clean content yields zero issues and identical content.
func ValidateText(candidate types.PostCandidate) types.ValidatedCandidate {
	var issues []string

	title := strings.TrimSpace(candidate.Content.Title)
	if runes := []rune(title); len(runes) > titleMax {
		title = string(runes[:titleMax])
		issues = append(issues, fmt.Sprintf("Title truncated to %d chars", titleMax))
	}

	caption := strings.TrimSpace(candidate.Content.Caption)
	if runes := []rune(caption); len(runes) > captionMax {
		caption = string(runes[:captionMax])
		issues = append(issues, fmt.Sprintf("Caption truncated to %d chars", captionMax))
	}

	emojiCount := countEmojiRuns(caption)
	if float64(emojiCount) > float64(len([]rune(caption)))/50 {
		issues = append(issues, fmt.Sprintf("High emoji density: %d emojis", emojiCount))
	}

	hashtags, seen := cleanHashtags(candidate.Content.Hashtags)
	if len(hashtags) > hashtagMax {
		hashtags = hashtags[:hashtagMax]
		issues = append(issues, fmt.Sprintf("Hashtags limited to %d", hashtagMax))
	} else if len(hashtags) < hashtagMin {
		for _, tag := range genericTags {
			if len(hashtags) >= hashtagMin {
				break
			}
			if !seen[strings.ToLower(tag)] {
				hashtags = append(hashtags, tag)
				seen[strings.ToLower(tag)] = true
			}
		}
		issues = append(issues, fmt.Sprintf("Added generic hashtags to meet minimum of %d", hashtagMin))
	}

	for _, re := range bannedPatterns {
		if re.MatchString(caption) {
			issues = append(issues, "Potentially inappropriate content detected")
			break
		}
	}

	return types.ValidatedCandidate{
		Variant:  candidate.Variant,
		Tone:     candidate.Tone,
		Method:   candidate.Method,
		Original: candidate.Content,
		Content: types.PostContent{
			Title:    title,
			Caption:  caption,
			Hashtags: hashtags,
		},
		Issues:  issues,
		IsValid: len(issues) == 0,
		Metrics: types.TextMetrics{
			TitleLength:   len([]rune(title)),
			CaptionLength: len([]rune(caption)),
			HashtagCount:  len(hashtags),
			EmojiCount:    emojiCount,
		},
	}
}

// cleanHashtags prefixes missing '#', strips invalid characters, and drops
// case-insensitive duplicates and empty tags.
func cleanHashtags(tags []string) ([]string, map[string]bool) {
	var out []string
	seen := map[string]bool{}
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tag = hashtagCleanRe.ReplaceAllString(tag, "")

		lower := strings.ToLower(tag)
		if !seen[lower] && len([]rune(tag)) > 1 {
			out = append(out, tag)
			seen[lower] = true
		}
	}
	return out, seen
}

// emojiRanges cover the common emoji blocks. The last range is deliberately
// broad to match enclosed characters and pictographs.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
	{0x2702, 0x27B0},
	{0x24C2, 0x1F251},
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// countEmojiRuns counts maximal runs of consecutive emoji characters, so
// "🎮🎮 text 🚀" counts as two.
func countEmojiRuns(s string) int {
	count := 0
	inRun := false
	for _, r := range s {
		if isEmoji(r) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count
}
