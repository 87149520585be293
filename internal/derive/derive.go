// Package derive 提供内容视图的纯派生函数。
// 所有函数都是确定性的、无副作用的，对相同输入永远返回相同输出；
// 列表页和详情页共用同一份派生逻辑，截断规则不允许出现分叉。
package derive

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTitleLen     = 80  // 首句可直接作为标题的最大长度
	titleTruncLen   = 60  // 无合适首句时的截断长度
	excerptTruncLen = 200 // 摘要截断长度
	wordsPerMinute  = 200 // 阅读速度估算基准
)

// GenerateTitle 为一条故事生成标题。
// 优先使用库中已有标题；否则取首句（不超过 80 字符）；
// 都不满足时将内容按词边界截断到 60 字符并加省略号。
func GenerateTitle(content, dbTitle string) string {
	if strings.TrimSpace(dbTitle) != "" {
		return dbTitle
	}
	first := content
	if idx := strings.IndexAny(content, ".!?"); idx >= 0 {
		first = content[:idx]
	}
	first = strings.TrimSpace(first)
	if first != "" && utf8.RuneCountInString(first) <= maxTitleLen {
		return first
	}
	return truncateAtWordBoundary(content, titleTruncLen)
}

// GenerateExcerpt 为一条故事生成列表页摘要。
// 内容不超过 200 字符时原样返回，否则按词边界截断并加省略号。
func GenerateExcerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptTruncLen {
		return content
	}
	return truncateAtWordBoundary(content, excerptTruncLen)
}

// CalculateReadTime 估算阅读时长（分钟），按每分钟 200 词向上取整，最少 1 分钟。
func CalculateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// FallbackTheme 是没有任何标签命中词典时使用的兜底主题。
const FallbackTheme = "finding-connection"

// tagThemes 是自由文本标签到固定主题的映射词典。
var tagThemes = map[string]string{
	"Dating history": "rejection",
	"Online spaces":  "toxic-communities",
	"Work":           "burnout",
	"Family":         "family-conflict",
	"School":         "bullying",
	"Friendships":    "loneliness",
	"Social anxiety": "anxiety",
	"Moving cities":  "isolation",
	"Breakup":        "heartbreak",
	"Self-esteem":    "self-worth",
	"Grief":          "loss",
	"Health":         "chronic-illness",
}

// MapTopicTagsToThemes 将标签映射为主题集合（保持首次出现顺序，去重）。
// 结果永远非空：没有命中时返回单一兜底主题。
func MapTopicTagsToThemes(tags []string) []string {
	var themes []string
	seen := make(map[string]struct{})
	for _, tag := range tags {
		theme, ok := tagThemes[tag]
		if !ok {
			continue
		}
		if _, dup := seen[theme]; dup {
			continue
		}
		seen[theme] = struct{}{}
		themes = append(themes, theme)
	}
	if len(themes) == 0 {
		return []string{FallbackTheme}
	}
	return themes
}

var usernameAdjectives = []string{
	"Gentle", "Quiet", "Brave", "Warm", "Steady", "Soft", "Bright", "Calm",
	"Kind", "Patient", "Honest", "Mellow", "Hopeful", "Tender", "Earnest",
	"Humble", "Serene", "Sturdy", "Wistful", "Candid", "Thoughtful", "Plain",
	"Mild", "Gracious", "Sincere", "Modest", "Peaceful", "Resolute", "Upbeat",
	"Faithful", "Amber", "Silver", "Golden", "Misty", "Dusky", "Vivid", "Clear",
}

var usernameNouns = []string{
	"River", "Willow", "Harbor", "Meadow", "Lantern", "Sparrow", "Cedar",
	"Ember", "Haven", "Brook", "Summit", "Garden", "Compass", "Anchor",
	"Beacon", "Grove", "Valley", "Horizon", "Trail", "Bridge", "Shelter",
	"Orchard", "Island", "Clearing", "Hearth", "Shore", "Prairie", "Canyon",
	"Thicket", "Spring", "Dawn", "Dusk", "Breeze", "Stone", "Fern", "Moss",
	"Pine",
}

// GenerateUsername 为一个用户 ID 派生稳定的匿名笔名。
// 校验和为 ID 中所有字符编码之和；形容词取 checksum 模 37，名词取
// (checksum×7) 模 37；两位数字后缀取自 ID 末 4 个字符中的数字字符，
// 不足时补零。相同 ID 的重复调用必定返回相同结果。
func GenerateUsername(userID string) string {
	var checksum int
	for _, r := range userID {
		checksum += int(r)
	}

	adjective := usernameAdjectives[checksum%len(usernameAdjectives)]
	noun := usernameNouns[(checksum*7)%len(usernameNouns)]

	return adjective + noun + numericSuffix(userID)
}

// numericSuffix 从 ID 末 4 个字符中的数字字符提取两位后缀，默认 "00"。
func numericSuffix(userID string) string {
	runes := []rune(userID)
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	var digits []rune
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	switch len(digits) {
	case 0:
		return "00"
	case 1:
		return "0" + string(digits)
	default:
		return string(digits[len(digits)-2:])
	}
}

// truncateAtWordBoundary 将字符串截断到最多 limit 个字符，回退到最后一个
// 完整的词并追加省略号；不会把一个词从中间切开。
func truncateAtWordBoundary(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := runes[:limit]
	lastSpace := -1
	for i, r := range cut {
		if unicode.IsSpace(r) {
			lastSpace = i
		}
	}
	if lastSpace > 0 {
		cut = cut[:lastSpace]
	}
	return strings.TrimRight(string(cut), " \t\n") + "..."
}
