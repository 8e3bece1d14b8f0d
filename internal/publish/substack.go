package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/store"
)

const (
	composerTitleSelector = `textarea[placeholder*="Title"], input[placeholder*="Title"], input[name="title"]`
	composerBodySelector  = `[contenteditable="true"]`

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// fillBody sets the composer's contenteditable surface and fires an input
// event so the editor registers the change.
const fillBodyScript = `(() => {
	const el = document.querySelector('[contenteditable="true"]');
	if (el) {
		el.focus();
		el.innerText = %s;
		el.dispatchEvent(new Event('input', { bubbles: true }));
	}
})()`

// SubstackAdapter stages a post through a driven browser session against the
// publication's web composer. Substack has no API.
//
// Recognized options: Headless (no visible window, no human login possible),
// AutoPublish (skip the human observation window).
//
// A Success result from this adapter means the content was staged for human
// confirmation, not that it is publicly live.
type SubstackAdapter struct {
	composerURL   string
	dashboardURL  string
	loginDeadline time.Duration
	reviewWindow  time.Duration
	logger        *slog.Logger
}

var _ Publisher = (*SubstackAdapter)(nil)

// NewSubstackAdapter wires the publication endpoints and the two bounded
// human waits (interactive login, post-fill review).
func NewSubstackAdapter(composerURL, dashboardURL string, loginDeadline, reviewWindow time.Duration, logger *slog.Logger) *SubstackAdapter {
	return &SubstackAdapter{
		composerURL:   composerURL,
		dashboardURL:  dashboardURL,
		loginDeadline: loginDeadline,
		reviewWindow:  reviewWindow,
		logger:        logger,
	}
}

// Name identifies the platform inside the registry.
func (s *SubstackAdapter) Name() string {
	return "substack"
}

// Publish opens the composer, handles the login policy, fills title and
// body, and holds the review window. The browser is always released, and
// every wait is bounded by the caller context.
func (s *SubstackAdapter) Publish(ctx context.Context, documentPath string, opts Options) (domain.PublishResult, error) {
	header, body, err := store.ReadDocument(documentPath)
	if err != nil {
		return domain.PublishResult{}, err
	}
	title := store.Title(header, body)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(browserUserAgent),
		chromedp.WindowSize(1280, 800),
	)
	allocCtx, releaseAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer releaseAlloc()
	browserCtx, releaseBrowser := chromedp.NewContext(allocCtx)
	defer releaseBrowser()

	s.info("opening composer", "url", s.composerURL, "headless", opts.Headless)

	var location string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(s.composerURL),
		chromedp.Sleep(3*time.Second),
		chromedp.Location(&location),
	); err != nil {
		return domain.PublishResult{}, fmt.Errorf("open composer: %w", err)
	}

	needLogin, err := authPolicy(location, opts.Headless)
	if err != nil {
		return domain.PublishResult{}, err
	}
	if needLogin {
		if err := s.awaitLogin(browserCtx); err != nil {
			return domain.PublishResult{}, err
		}
	}

	if err := chromedp.Run(browserCtx,
		chromedp.WaitVisible(composerTitleSelector, chromedp.ByQuery),
		chromedp.Click(composerTitleSelector, chromedp.ByQuery),
		chromedp.SendKeys(composerTitleSelector, title, chromedp.ByQuery),
		chromedp.WaitVisible(composerBodySelector, chromedp.ByQuery),
		chromedp.Click(composerBodySelector, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(fillBodyScript, jsString(body)), nil),
	); err != nil {
		return domain.PublishResult{}, fmt.Errorf("fill composer: %w", err)
	}

	s.info("content staged", "title", title, "runes", len([]rune(body)))

	if !opts.AutoPublish {
		s.info("holding review window for human confirmation", "window", s.reviewWindow)
		select {
		case <-time.After(s.reviewWindow):
		case <-ctx.Done():
			return domain.PublishResult{}, ctx.Err()
		}
	}

	return domain.PublishResult{Success: true, URL: s.dashboardURL, Method: "browser"}, nil
}

// awaitLogin blocks until a human completes sign-in in the visible session
// or the login deadline passes.
func (s *SubstackAdapter) awaitLogin(ctx context.Context) error {
	s.info("login required, waiting for human sign-in", "deadline", s.loginDeadline)

	waitCtx, cancel := context.WithTimeout(ctx, s.loginDeadline)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-waitCtx.Done():
			return fmt.Errorf("login not completed within %s: %w", s.loginDeadline, ErrAuthRequired)
		case <-ticker.C:
			var location string
			if err := chromedp.Run(waitCtx, chromedp.Location(&location)); err != nil {
				return pollFailure(waitCtx, s.loginDeadline, err)
			}
			if location != "" && !isLoginURL(location) {
				s.info("login completed")
				return nil
			}
		}
	}
}

// authPolicy decides what an unauthenticated session may do. A headless run
// cannot receive a human sign-in, so it fails right away; an interactive run
// gets the bounded login wait.
func authPolicy(location string, headless bool) (awaitLogin bool, err error) {
	if !isLoginURL(location) {
		return false, nil
	}
	if headless {
		return false, fmt.Errorf("substack session unauthenticated in headless mode: %w", ErrAuthRequired)
	}
	return true, nil
}

// pollFailure maps a failed location poll to the right error: a deadline that
// expired mid-poll is still an unfinished login, not a transport fault.
func pollFailure(ctx context.Context, deadline time.Duration, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("login not completed within %s: %w", deadline, ErrAuthRequired)
	}
	return fmt.Errorf("poll login state: %w", err)
}

func isLoginURL(location string) bool {
	return strings.Contains(location, "sign-in") || strings.Contains(location, "login")
}

// jsString quotes text as a JavaScript string literal.
func jsString(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"${", "\\${",
	)
	return "`" + replacer.Replace(text) + "`"
}

func (s *SubstackAdapter) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
