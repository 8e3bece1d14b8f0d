package generate

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"ArticlePress/internal/domain"
)

// Excerpt prefix folded into the prompt, in runes.
const maxExcerptRunes = 1000

// Style carries the phrase banks and author identity from configuration.
type Style struct {
	Author          string
	OpeningHooks    []string
	EmphasisPhrases []string
	ClosingPhrases  []string
}

// PromptBuilder merges persona, style and the target story into a generation
// prompt. Phrase picks are uniformly random per build; the resulting output
// variance is intentional.
type PromptBuilder struct {
	style   Style
	persona Persona
}

// NewPromptBuilder wires the opaque style material.
func NewPromptBuilder(style Style, persona Persona) *PromptBuilder {
	return &PromptBuilder{style: style, persona: persona}
}

// Build renders the full prompt for one story.
func (b *PromptBuilder) Build(item domain.ScoredNewsItem, excerpt string) string {
	opening := pick(b.style.OpeningHooks)
	emphasis := pick(b.style.EmphasisPhrases)
	closing := pick(b.style.ClosingPhrases)

	var sb strings.Builder
	sb.WriteString("你是一位科技創業家與 AI 思想領袖，長年撰寫科技評論專欄。\n\n")
	sb.WriteString("# 你的寫作風格特徵\n\n")
	sb.WriteString("**核心特色**:\n")
	sb.WriteString("- 理性、深度思考、批判性\n")
	sb.WriteString("- 第一人稱敘事，分享實戰經驗與觀察\n")
	sb.WriteString("- 問題導向，引導讀者思考\n")
	sb.WriteString("- 中短文為主 (1,000-1,500 字)\n\n")

	if examples := b.persona.CuratorStyle.VoiceExamples; len(examples) > 0 {
		sb.WriteString("**經典語錄**:\n")
		for _, example := range examples {
			fmt.Fprintf(&sb, "- \"%s\"\n", example)
		}
		sb.WriteString("\n")
	}

	if len(b.persona.TopicEvolution) > 0 {
		sb.WriteString("**你的主題演進**:\n")
		periods := make([]string, 0, len(b.persona.TopicEvolution))
		for period := range b.persona.TopicEvolution {
			periods = append(periods, period)
		}
		sort.Strings(periods)
		for _, period := range periods {
			fmt.Fprintf(&sb, "- %s: %s\n", period, b.persona.TopicEvolution[period])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n# 任務：針對以下科技新聞撰寫評論文章\n\n")
	fmt.Fprintf(&sb, "**新聞標題**: %s\n", item.Title)
	fmt.Fprintf(&sb, "**來源**: %s\n", item.Source)
	fmt.Fprintf(&sb, "**連結**: %s\n", item.URL)

	if excerpt != "" {
		fmt.Fprintf(&sb, "\n**新聞摘要**: %s...\n", truncateRunes(excerpt, maxExcerptRunes))
	}

	sb.WriteString("\n---\n\n# 寫作要求\n\n")
	sb.WriteString("1. **字數**: 1,000-1,500 字 (繁體中文)\n\n")
	sb.WriteString("2. **結構建議**:\n")
	fmt.Fprintf(&sb, "   - 開場: 用「%s」或類似引導方式切入\n", opening)
	sb.WriteString("   - 論述: 2-3 個核心觀點，每個觀點可用小標題\n")
	sb.WriteString("   - 類比: 如果適合，用歷史類比說明趨勢\n")
	fmt.Fprintf(&sb, "   - 結尾: 用「%s」或類似方式收尾\n\n", closing)
	sb.WriteString("3. **寫作技巧**:\n")
	fmt.Fprintf(&sb, "   - 使用「%s」等強調用語\n", emphasis)
	sb.WriteString("   - 提出批判性思考，不盲從主流觀點\n")
	sb.WriteString("   - 連結技術與商業價值，不純談技術\n")
	sb.WriteString("   - 用問句引導讀者思考\n\n")
	sb.WriteString("4. **避免**: 過度客套、純技術討論無商業洞察、空泛的勵志內容\n\n")
	sb.WriteString("**重要**: 請直接輸出完整的繁體中文文章，不要輸出你的思考過程或計畫。\n\n")
	sb.WriteString("**輸出格式**:\n# [你的文章標題]\n\n[正文內容...]\n\n---\n")
	fmt.Fprintf(&sb, "*原始新聞*: %s\n", item.URL)
	fmt.Fprintf(&sb, "*發表於*: %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&sb, "*作者*: %s\n\n", b.style.Author)
	sb.WriteString("現在開始撰寫文章（直接輸出繁體中文文章，不要說明或計畫）:\n")

	return sb.String()
}

func pick(phrases []string) string {
	if len(phrases) == 0 {
		return ""
	}
	return phrases[rand.IntN(len(phrases))]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
