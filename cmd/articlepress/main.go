package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ArticlePress/internal/app"
	"ArticlePress/internal/config"
	"ArticlePress/internal/domain"
	"ArticlePress/internal/logging"
	"ArticlePress/internal/publish"
)

func main() {
	_ = godotenv.Load()

	var (
		auto           = flag.Int("auto", 0, "generate for the Nth shortlist item without prompting (1-based)")
		publishPath    = flag.String("publish", "", "publish an existing article file")
		platformsFlag  = flag.String("platforms", "medium,substack", "comma-separated platforms for -publish")
		mediumToken    = flag.String("medium-token", "", "explicit Medium integration token")
		mediumPublic   = flag.Bool("medium-publish", false, "publish publicly on Medium instead of creating a draft")
		mediumNoNotify = flag.Bool("medium-no-notify", false, "do not notify Medium followers")
		substackAuto   = flag.Bool("substack-auto", false, "skip the Substack review window")
		headless       = flag.Bool("headless", false, "drive the browser without a visible window")
		checkToken     = flag.Bool("check-medium-token", false, "verify the Medium credential and show the account")
		schedule       = flag.Bool("schedule", false, "run scheduled generation until interrupted")
	)
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := publish.Options{
		Token:       *mediumToken,
		Public:      *mediumPublic,
		NoNotify:    *mediumNoNotify,
		Headless:    *headless,
		AutoPublish: *substackAuto,
	}

	switch {
	case *checkToken:
		runCheckToken(ctx, application, opts)
	case *publishPath != "":
		runPublish(ctx, application, *publishPath, *platformsFlag, opts)
	case *schedule:
		runSchedule(ctx, application, logger)
	case *auto > 0:
		runAuto(ctx, application, *auto, logger)
	default:
		runInteractive(ctx, application, logger)
	}
}

func runCheckToken(ctx context.Context, application *app.Application, opts publish.Options) {
	user, err := application.Medium.CheckToken(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token 驗證失敗: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Medium token 有效\n")
	fmt.Printf("帳號: %s (@%s)\n", user.Name, user.Username)
	if user.URL != "" {
		fmt.Printf("主頁: %s\n", user.URL)
	}
}

func runPublish(ctx context.Context, application *app.Application, path, platformsFlag string, opts publish.Options) {
	platforms := splitPlatforms(platformsFlag)
	if len(platforms) == 0 {
		fmt.Fprintln(os.Stderr, "沒有指定發佈平台")
		os.Exit(1)
	}

	perPlatform := make(map[string]publish.Options, len(platforms))
	for _, name := range platforms {
		perPlatform[name] = opts
	}

	results := application.Pipeline.Publish(ctx, path, platforms, perPlatform)

	fmt.Printf("\n發佈結果:\n")
	for _, name := range platforms {
		result := results[name]
		if result.Success {
			fmt.Printf("  [ok] %s (%s): %s\n", name, result.Method, result.URL)
		} else {
			fmt.Printf("  [failed] %s: %s\n", name, result.Err)
		}
	}
	if !publish.AllSucceeded(results) {
		os.Exit(1)
	}
}

func runSchedule(ctx context.Context, application *app.Application, logger *slog.Logger) {
	if err := application.Scheduler.Start(ctx); err != nil {
		logger.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}
	logger.Info("scheduler running", "cron", application.Cfg.Scheduler.CronExpression)
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Scheduler.Stop(stopCtx); err != nil {
		logger.Warn("scheduler stop", "error", err)
	}
}

func runAuto(ctx context.Context, application *app.Application, index int, logger *slog.Logger) {
	shortlist := application.Pipeline.Shortlist(ctx)
	if len(shortlist) == 0 {
		fmt.Println("目前沒有符合相關度門檻的新聞")
		return
	}
	if index > len(shortlist) {
		fmt.Fprintf(os.Stderr, "編號 %d 超出範圍 (共 %d 則)\n", index, len(shortlist))
		os.Exit(1)
	}

	path, err := application.Pipeline.Compose(ctx, shortlist[index-1])
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("文章已儲存: %s\n", path)
}

func runInteractive(ctx context.Context, application *app.Application, logger *slog.Logger) {
	fmt.Println("正在彙整新聞來源...")
	shortlist := application.Pipeline.Shortlist(ctx)
	if len(shortlist) == 0 {
		fmt.Println("目前沒有符合相關度門檻的新聞")
		return
	}

	printShortlist(shortlist)

	reader := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n選擇要撰寫的新聞編號 (l 重新列出, q 離開): ")
		if !reader.Scan() {
			return
		}
		input := strings.TrimSpace(reader.Text())

		switch input {
		case "q", "Q":
			return
		case "l", "L":
			printShortlist(shortlist)
			continue
		}

		index, err := strconv.Atoi(input)
		if err != nil || index < 1 || index > len(shortlist) {
			fmt.Printf("請輸入 1-%d 之間的編號\n", len(shortlist))
			continue
		}

		item := shortlist[index-1]
		fmt.Printf("\n即將根據「%s」生成文章，確定嗎? (y/n): ", item.Title)
		if !reader.Scan() || !strings.EqualFold(strings.TrimSpace(reader.Text()), "y") {
			continue
		}

		fmt.Println("生成中，視模型大小可能需要數分鐘...")
		path, err := application.Pipeline.Compose(ctx, item)
		if err != nil {
			logger.Error("generation failed", "error", err)
			fmt.Println("生成失敗，請換一則新聞或稍後再試")
			continue
		}

		fmt.Printf("\n文章已儲存: %s\n", path)
		fmt.Printf("發佈指令: articlepress -publish %s -platforms medium,substack\n", path)
	}
}

func printShortlist(shortlist []domain.ScoredNewsItem) {
	fmt.Printf("\n找到 %d 則相關新聞:\n\n", len(shortlist))
	for i, item := range shortlist {
		fmt.Printf("%2d. %s [%d/10] %s\n", i+1, relevanceMarker(item.Relevance), item.Relevance, item.Title)
		fmt.Printf("      %s | %d points | %s\n", item.Source, item.Points, item.URL)
	}
}

func relevanceMarker(relevance int) string {
	switch {
	case relevance >= 8:
		return "***"
	case relevance >= 6:
		return "** "
	default:
		return "*  "
	}
}

func splitPlatforms(value string) []string {
	parts := strings.Split(value, ",")
	platforms := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			platforms = append(platforms, name)
		}
	}
	return platforms
}
