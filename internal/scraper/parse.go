package scraper

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var engagementRe = regexp.MustCompile(`([\d.]+)\s*([km])?`)

// parseFollowerCount turns "1,234 followers" / "10k followers" / "1.2m
// followers" into an absolute count. Unparseable input yields 0.
func parseFollowerCount(text string) int {
	if text == "" {
		return 0
	}
	cleaned := strings.ToLower(text)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " followers", "")
	cleaned = strings.ReplaceAll(cleaned, " follower", "")
	cleaned = strings.TrimSpace(cleaned)

	switch {
	case strings.Contains(cleaned, "m"):
		num, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, "m", ""), 64)
		if err != nil {
			return 0
		}
		return int(num * 1_000_000)
	case strings.Contains(cleaned, "k"):
		num, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, "k", ""), 64)
		if err != nil {
			return 0
		}
		return int(num * 1_000)
	default:
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return int(num)
	}
}

// parseEngagementCount extracts the leading number from strings like
// "1.2K reactions" or "87 comments".
func parseEngagementCount(text string) int {
	if text == "" {
		return 0
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(text), ",", ""))

	match := engagementRe.FindStringSubmatch(cleaned)
	if match == nil || match[1] == "" {
		return 0
	}
	num, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	switch match[2] {
	case "k":
		return int(num * 1_000)
	case "m":
		return int(num * 1_000_000)
	}
	return int(num)
}

// generatePostID synthesizes a stable post natural key: the source
// exposes no id for anonymous viewers, so identity derives from page,
// leading content, and position.
func generatePostID(pageID, content string, index int) string {
	if len(content) > 100 {
		content = content[:100]
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%d", pageID, content, index)))
	return fmt.Sprintf("%s_%s", pageID, hex.EncodeToString(sum[:])[:12])
}

func generateCommentID(postID, author, content string, index int) string {
	if len(content) > 50 {
		content = content[:50]
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%s_%d", postID, author, content, index)))
	return fmt.Sprintf("%s_c%s", postID, hex.EncodeToString(sum[:])[:8])
}
