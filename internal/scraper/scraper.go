package scraper

import "context"

// TitleFetcher suggests a repository title from the page behind its URL.
type TitleFetcher interface {
	// FetchTitle returns the trimmed <title> of the page at url.
	FetchTitle(ctx context.Context, url string) (string, error)
}
