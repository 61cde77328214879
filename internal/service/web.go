package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	webProvider  = "web"
	maxPageBytes = 2 << 20
	userAgent    = "Mozilla/5.0 (compatible; SkillMatch/1.0)"
)

// articleSelectors are tried in order to find a blog post body
var articleSelectors = []string{
	"article",
	"main",
	".post-content",
	".entry-content",
	".post",
	"#content",
	".content",
}

// postingSelectors are tried in order to find a job description
var postingSelectors = []string{
	".job-description",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
}

// PageFetcher downloads web pages and reduces them to readable text
type PageFetcher struct {
	client *http.Client
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// BlogText returns the title and main text of a blog post
func (f *PageFetcher) BlogText(ctx context.Context, url string) (string, error) {
	return f.fetchText(ctx, url, articleSelectors)
}

// PostingText returns the main text of a job posting page
func (f *PageFetcher) PostingText(ctx context.Context, url string) (string, error) {
	return f.fetchText(ctx, url, postingSelectors)
}

func (f *PageFetcher) fetchText(ctx context.Context, url string, selectors []string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", transportError(webProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(webProvider, resp.StatusCode, nil)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	return mainText(doc, selectors), nil
}

// mainText strips page chrome and returns the first matching content block
func mainText(doc *goquery.Document, selectors []string) string {
	doc.Find("nav, footer, header, script, style, noscript, aside, form, .sidebar, .comments, .cookie-banner").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var content *goquery.Selection
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	text := cleanWhitespace(content.Text())
	if title != "" && !strings.HasPrefix(text, title) {
		text = title + "\n" + text
	}
	return text
}

// cleanWhitespace trims every line and drops empty ones
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
