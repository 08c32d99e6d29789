package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// pageTimeout bounds loading a single page.
const pageTimeout = 30 * time.Second

// ErrNoTitle is returned when the page has no usable <title>.
var ErrNoTitle = errors.New("page has no title")

// browserProcess is the part of *launcher.Launcher used to run a browser.
type browserProcess interface {
	Launch() (string, error)
	Kill()
}

// startBrowser launches the browser and connects to it. The process is
// killed when the connection cannot be made.
func startBrowser(l browserProcess) (*rod.Browser, error) {
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	return browser, nil
}

// RodTitleFetcher implements TitleFetcher with a headless browser.
type RodTitleFetcher struct {
	log logrus.FieldLogger
}

// NewRodTitleFetcher creates a fetcher that launches a browser per call.
func NewRodTitleFetcher(logger logrus.FieldLogger) *RodTitleFetcher {
	return &RodTitleFetcher{log: logger.WithField("component", "title_fetcher")}
}

// FetchTitle loads url and returns its page title.
func (f *RodTitleFetcher) FetchTitle(ctx context.Context, url string) (title string, err error) {
	log := f.log.WithField("url", url)
	log.Info("Attempting to fetch page title")

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("cannot fetch title of %q: not an http(s) url", url)
	}

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return "", errors.New("rod browser dependency not found")
	}
	browser, err := startBrowser(launcher.New().Bin(path))
	if err != nil {
		log.WithError(err).Error("Failed to start rod browser")
		return "", err
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Error closing rod browser instance")
			if err == nil {
				err = fmt.Errorf("error closing browser: %w", closeErr)
			}
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	page, err := browser.Context(pageCtx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		log.WithError(err).Error("Failed to create rod page")
		return "", fmt.Errorf("failed to create page: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Fetching title timed out")
			return "", fmt.Errorf("fetching title timed out for %s: %w", url, pageCtx.Err())
		}
		return "", fmt.Errorf("failed waiting for page load: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	title = strings.TrimSpace(info.Title)
	if title == "" {
		log.Warn("Page has no title")
		return "", ErrNoTitle
	}

	log.WithField("title", title).Info("Page title fetched successfully")
	return title, nil
}
