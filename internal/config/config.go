package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ArticlePress/internal/domain"
)

const (
	configPathEnv  = "ARTICLE_PRESS_CONFIG"
	ollamaURLEnv   = "OLLAMA_URL"
	outputDirEnv   = "ARTICLE_OUTPUT_DIR"
	personaPathEnv = "ARTICLE_PERSONA_PATH"
	logLevelEnv    = "ARTICLE_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Sources   []SourceConfig  `yaml:"sources"`
	Interests InterestConfig  `yaml:"interests"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Article   ArticleConfig   `yaml:"article"`
	AI        AIConfig        `yaml:"ai"`
	Paths     PathsConfig     `yaml:"paths"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Platforms PlatformsConfig `yaml:"platforms"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig describes a single news source with its fetch strategy.
// Type is one of "hn", "rss", "web".
type SourceConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Selector string `yaml:"selector"`
	MaxItems int    `yaml:"maxItems"`
}

// InterestConfig carries the weighted keyword tiers and the exclusion list.
type InterestConfig struct {
	High    []string `yaml:"high"`
	Medium  []string `yaml:"medium"`
	Low     []string `yaml:"low"`
	Exclude []string `yaml:"exclude"`
}

// FetchConfig bounds the aggregated list.
type FetchConfig struct {
	MaxNewsItems      int `yaml:"maxNewsItems"`
	MinRelevanceScore int `yaml:"minRelevanceScore"`
}

// ArticleConfig bundles the writing-style material merged into prompts.
// The phrase banks are opaque to the pipeline; one entry of each is chosen
// at random per prompt.
type ArticleConfig struct {
	Author          string   `yaml:"author"`
	PersonaPath     string   `yaml:"personaPath"`
	OpeningHooks    []string `yaml:"openingHooks"`
	EmphasisPhrases []string `yaml:"emphasisPhrases"`
	ClosingPhrases  []string `yaml:"closingPhrases"`
}

// AIConfig defines the generation backend and the model fallback chain.
type AIConfig struct {
	Models         []string `yaml:"models"`
	OllamaURL      string   `yaml:"ollamaUrl"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
	Temperature    float64  `yaml:"temperature"`
	TopP           float64  `yaml:"topP"`
	NumPredict     int      `yaml:"numPredict"`
	MinRunes       int      `yaml:"minRunes"`
}

// Timeout resolves the backend call timeout.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// PathsConfig locates generated documents on disk.
type PathsConfig struct {
	Output string `yaml:"output"`
}

// SchedulerConfig defines when unattended runs execute.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// PlatformsConfig groups per-platform publish settings.
type PlatformsConfig struct {
	Medium   MediumConfig   `yaml:"medium"`
	Substack SubstackConfig `yaml:"substack"`
}

// MediumConfig wires the Medium REST adapter.
type MediumConfig struct {
	BaseURL     string   `yaml:"baseUrl"`
	TagKeywords []string `yaml:"tagKeywords"`
}

// SubstackConfig wires the browser-driven Substack adapter.
type SubstackConfig struct {
	Publication   string `yaml:"publication"`
	ReviewSeconds int    `yaml:"reviewSeconds"`
	LoginSeconds  int    `yaml:"loginSeconds"`
}

// ComposerURL is the new-post endpoint of the publication.
func (s SubstackConfig) ComposerURL() string {
	return "https://" + s.Publication + ".substack.com/publish/post/new"
}

// DashboardURL is where staged posts show up for human confirmation.
func (s SubstackConfig) DashboardURL() string {
	return "https://" + s.Publication + ".substack.com/publish"
}

// ReviewWindow resolves the post-fill observation window.
func (s SubstackConfig) ReviewWindow() time.Duration {
	if s.ReviewSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.ReviewSeconds) * time.Second
}

// LoginDeadline resolves the interactive-login wait bound.
func (s SubstackConfig) LoginDeadline() time.Duration {
	if s.LoginSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(s.LoginSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(ollamaURLEnv); v != "" {
		c.AI.OllamaURL = v
	}

	if v := os.Getenv(outputDirEnv); v != "" {
		c.Paths.Output = v
	}

	if v := os.Getenv(personaPathEnv); v != "" {
		c.Article.PersonaPath = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	if len(override.Interests.High) > 0 {
		base.Interests.High = override.Interests.High
	}
	if len(override.Interests.Medium) > 0 {
		base.Interests.Medium = override.Interests.Medium
	}
	if len(override.Interests.Low) > 0 {
		base.Interests.Low = override.Interests.Low
	}
	if len(override.Interests.Exclude) > 0 {
		base.Interests.Exclude = override.Interests.Exclude
	}

	if override.Fetch.MaxNewsItems > 0 {
		base.Fetch.MaxNewsItems = override.Fetch.MaxNewsItems
	}
	if override.Fetch.MinRelevanceScore > 0 {
		base.Fetch.MinRelevanceScore = override.Fetch.MinRelevanceScore
	}

	if override.Article.Author != "" {
		base.Article.Author = override.Article.Author
	}
	if override.Article.PersonaPath != "" {
		base.Article.PersonaPath = override.Article.PersonaPath
	}
	if len(override.Article.OpeningHooks) > 0 {
		base.Article.OpeningHooks = override.Article.OpeningHooks
	}
	if len(override.Article.EmphasisPhrases) > 0 {
		base.Article.EmphasisPhrases = override.Article.EmphasisPhrases
	}
	if len(override.Article.ClosingPhrases) > 0 {
		base.Article.ClosingPhrases = override.Article.ClosingPhrases
	}

	if len(override.AI.Models) > 0 {
		base.AI.Models = override.AI.Models
	}
	if override.AI.OllamaURL != "" {
		base.AI.OllamaURL = override.AI.OllamaURL
	}
	if override.AI.TimeoutSeconds > 0 {
		base.AI.TimeoutSeconds = override.AI.TimeoutSeconds
	}
	if override.AI.Temperature > 0 {
		base.AI.Temperature = override.AI.Temperature
	}
	if override.AI.TopP > 0 {
		base.AI.TopP = override.AI.TopP
	}
	if override.AI.NumPredict > 0 {
		base.AI.NumPredict = override.AI.NumPredict
	}
	if override.AI.MinRunes > 0 {
		base.AI.MinRunes = override.AI.MinRunes
	}

	if override.Paths.Output != "" {
		base.Paths = override.Paths
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler = override.Scheduler
	}

	if override.Platforms.Medium.BaseURL != "" {
		base.Platforms.Medium.BaseURL = override.Platforms.Medium.BaseURL
	}
	if len(override.Platforms.Medium.TagKeywords) > 0 {
		base.Platforms.Medium.TagKeywords = override.Platforms.Medium.TagKeywords
	}
	if override.Platforms.Substack.Publication != "" {
		base.Platforms.Substack.Publication = override.Platforms.Substack.Publication
	}
	if override.Platforms.Substack.ReviewSeconds > 0 {
		base.Platforms.Substack.ReviewSeconds = override.Platforms.Substack.ReviewSeconds
	}
	if override.Platforms.Substack.LoginSeconds > 0 {
		base.Platforms.Substack.LoginSeconds = override.Platforms.Substack.LoginSeconds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Sources: []SourceConfig{
			{Name: "Hacker News", Type: "hn", URL: "https://hacker-news.firebaseio.com/v0", MaxItems: 30},
			{Name: "TechCrunch", Type: "rss", URL: "https://techcrunch.com/feed/", MaxItems: 20},
			{Name: "The Verge", Type: "rss", URL: "https://www.theverge.com/rss/index.xml", MaxItems: 20},
		},
		Interests: InterestConfig{
			High: []string{
				"AI", "LLM", "GPT", "Claude", "Gemini",
				"on-premise", "local AI", "privacy AI",
				"AI assistant", "personal AI",
				"startup", "founder", "early-stage",
				"product management", "go-to-market",
			},
			Medium: []string{
				"blockchain", "web3", "decentralized",
				"IoT", "edge computing",
				"Intel", "AI PC", "hardware",
				"privacy", "data ownership",
				"enterprise AI", "SMB",
			},
			Low: []string{
				"tech trend", "innovation",
				"digital transformation",
				"productivity", "automation",
			},
			Exclude: []string{
				"crypto price", "token price", "pump", "moon",
				"celebrity", "gossip", "scandal",
				"clickbait", "you won't believe",
			},
		},
		Fetch: FetchConfig{MaxNewsItems: 20, MinRelevanceScore: 5},
		Article: ArticleConfig{
			Author:      "AI-assisted",
			PersonaPath: "",
			OpeningHooks: []string{
				"這幾年觀察下來...",
				"有個有趣的現象...",
				"大家都在談X，但很少人注意到...",
				"最近被問到...",
			},
			EmphasisPhrases: []string{
				"說穿了，就是...",
				"關鍵在於...",
				"簡單說...",
				"這才是重點...",
			},
			ClosingPhrases: []string{
				"值得深思。",
				"拭目以待。",
				"這也是我們正在做的事。",
				"期待看到更多實踐。",
			},
		},
		AI: AIConfig{
			Models:         []string{"qwen2.5:14b", "gpt-oss:20b", "llama3.2:3b"},
			OllamaURL:      "http://localhost:11434/api/generate",
			TimeoutSeconds: 120,
			Temperature:    0.7,
			TopP:           0.9,
			NumPredict:     2500,
			MinRunes:       500,
		},
		Paths:     PathsConfig{Output: "generated"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *"},
		Platforms: PlatformsConfig{
			Medium: MediumConfig{
				BaseURL: "https://api.medium.com/v1",
				TagKeywords: []string{
					"AI", "Blockchain", "Web3", "Startup", "IoT", "Product Management",
				},
			},
			Substack: SubstackConfig{
				Publication:   "example",
				ReviewSeconds: 60,
				LoginSeconds:  120,
			},
		},
	}
}

// Profile converts the keyword config into the scoring profile.
func (c InterestConfig) Profile() domain.InterestProfile {
	return domain.InterestProfile{
		High:    c.High,
		Medium:  c.Medium,
		Low:     c.Low,
		Exclude: c.Exclude,
	}
}
