package collect

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// HTMLSource scrapes a job listing page. Listing markup differs per site, so
// both the item and field lookups walk a chain of fallback selectors and use
// the first that matches.
type HTMLSource struct {
	name    string
	baseURL string
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewHTMLSource creates a scraper for the listing page at baseURL.
func NewHTMLSource(name, baseURL string, fetcher *Fetcher, log *zap.Logger) *HTMLSource {
	return &HTMLSource{
		name:    name,
		baseURL: baseURL,
		fetcher: fetcher,
		logger:  log,
	}
}

func (s *HTMLSource) Name() string {
	return s.name
}

// Fetch downloads the listing page and parses one raw record per job item.
func (s *HTMLSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	body, err := s.fetcher.Get(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	items := selectFirst(doc.Selection, ".job-list-item", ".job-item", "li.job")

	var records []map[string]any
	items.Each(func(_ int, item *goquery.Selection) {
		if rec := s.parseItem(item); rec != nil {
			records = append(records, rec)
		}
	})

	s.logger.Info("Parsed listing page",
		zap.String("source", s.name),
		zap.Int("records", len(records)))

	return records, nil
}

// parseItem extracts one raw record from a job item. Items without a company
// or position are skipped.
func (s *HTMLSource) parseItem(item *goquery.Selection) map[string]any {
	company := textOfFirst(item, ".company-name", ".company", "h3")
	position := textOfFirst(item, ".job-title", ".position", "h2")
	if company == "" && position == "" {
		return nil
	}

	rec := map[string]any{
		"company_name": company,
		"position":     position,
	}

	if href, ok := item.Find("a").First().Attr("href"); ok {
		rec["source"] = s.resolveURL(href)
	}
	if date := textOfFirst(item, ".date", ".publish-date"); date != "" {
		rec["publish_date"] = date
	}
	if city := textOfFirst(item, ".city", ".location"); city != "" {
		rec["city"] = city
	}

	return rec
}

// resolveURL makes a possibly-relative link absolute against the base URL.
func (s *HTMLSource) resolveURL(href string) string {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// selectFirst returns the matches of the first selector that yields any.
func selectFirst(root *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := root.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return root.Find(selectors[len(selectors)-1])
}

// textOfFirst returns the trimmed text of the first selector that matches.
func textOfFirst(item *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if found := item.Find(sel); found.Length() > 0 {
			return strings.TrimSpace(found.First().Text())
		}
	}
	return ""
}
