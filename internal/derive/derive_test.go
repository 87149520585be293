package derive

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// 库中已有标题时直接使用
func TestGenerateTitlePrefersDBTitle(t *testing.T) {
	title := GenerateTitle("Some long content here. More text.", "My Story")
	assert.Equal(t, "My Story", title)
}

// 没有标题时取首句
func TestGenerateTitleFirstSentence(t *testing.T) {
	title := GenerateTitle("I finally told someone how I felt. It changed everything for me.", "")
	assert.Equal(t, "I finally told someone how I felt", title)
}

// 首句过长时按词边界截断到 60 字符并加省略号
func TestGenerateTitleTruncatesLongFirstSentence(t *testing.T) {
	content := strings.Repeat("loneliness ", 20) + "." // 首句远超 80 字符
	title := GenerateTitle(content, "")
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(title), 63)
	// 截断不能把词切开
	trimmed := strings.TrimSuffix(title, "...")
	assert.True(t, strings.HasPrefix(content, trimmed))
	assert.Equal(t, byte(' '), content[len(trimmed)])
}

// 短内容的摘要原样返回
func TestGenerateExcerptShortContent(t *testing.T) {
	content := "A short story about finding my people."
	assert.Equal(t, content, GenerateExcerpt(content))
}

// 摘要不超过 203 字符（200 + 省略号）且不切开词
func TestGenerateExcerptTruncation(t *testing.T) {
	content := strings.Repeat("belonging matters ", 30)
	excerpt := GenerateExcerpt(content)
	assert.LessOrEqual(t, utf8.RuneCountInString(excerpt), 203)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	trimmed := strings.TrimSuffix(excerpt, "...")
	assert.True(t, strings.HasPrefix(content, trimmed))
	assert.Equal(t, byte(' '), content[len(trimmed)])
}

// 阅读时长：空内容也至少 1 分钟
func TestCalculateReadTime(t *testing.T) {
	assert.Equal(t, 1, CalculateReadTime(""))
	assert.Equal(t, 1, CalculateReadTime(strings.TrimSpace(strings.Repeat("word ", 200))))
	assert.Equal(t, 2, CalculateReadTime(strings.TrimSpace(strings.Repeat("word ", 201))))
	assert.Equal(t, 3, CalculateReadTime(strings.TrimSpace(strings.Repeat("word ", 450))))
}

// 主题映射：结果永远非空
func TestMapTopicTagsToThemes(t *testing.T) {
	// 空标签返回单一兜底主题
	themes := MapTopicTagsToThemes([]string{})
	assert.Equal(t, []string{FallbackTheme}, themes)

	// 未命中词典同样返回兜底主题
	themes = MapTopicTagsToThemes([]string{"unknown tag"})
	assert.Equal(t, []string{FallbackTheme}, themes)

	// 命中词典的标签映射到对应主题
	themes = MapTopicTagsToThemes([]string{"Dating history", "Online spaces"})
	assert.Equal(t, []string{"rejection", "toxic-communities"}, themes)

	// 重复主题去重
	themes = MapTopicTagsToThemes([]string{"Friendships", "Friendships"})
	assert.Equal(t, []string{"loneliness"}, themes)
}

// 笔名生成必须是 ID 的纯函数
func TestGenerateUsernameStable(t *testing.T) {
	id := "a1b2c3d4-5678-90ab-cdef-000011112222"
	first := GenerateUsername(id)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GenerateUsername(id))
	}
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z]+\d{2}$`), first)
}

// 数字后缀取自 ID 末 4 个字符中的数字，缺数字时补零
func TestGenerateUsernameSuffix(t *testing.T) {
	assert.True(t, strings.HasSuffix(GenerateUsername("user-1234"), "34"))
	assert.True(t, strings.HasSuffix(GenerateUsername("no-digits-here"), "00"))
	assert.True(t, strings.HasSuffix(GenerateUsername("x7"), "07"))
}
