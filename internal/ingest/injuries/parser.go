// Package injuries scrapes the league injury report page.
package injuries

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/store"
)

const (
	blockSelector = "div.covers-CoversSeasonInjuries-blockContainer"
	tableSelector = "table.covers-CoversMatchups-Table"
	noInjuries    = "No injuries"
)

// Fetch downloads and parses the injury page at url.
func Fetch(ctx context.Context, src fetch.PageSource, url string) ([]store.InjuryReport, error) {
	html, err := src.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(html)
}

// Parse extracts injury reports from the page HTML.
func Parse(html string) ([]store.InjuryReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse injury page: %w", err)
	}
	return ParseDocument(doc), nil
}

// ParseDocument walks every team block. Rows must have exactly four cells
// (player, date, status, details) and a player link; anything else is skipped.
func ParseDocument(doc *goquery.Document) []store.InjuryReport {
	reports := []store.InjuryReport{}
	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		table := block.Find(tableSelector).First()
		if table.Length() == 0 {
			return
		}
		rows := table.Find("tbody tr")
		if rows.Length() == 0 {
			rows = table.Find("tr")
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			if strings.Contains(row.Text(), noInjuries) {
				return
			}
			cells := row.ChildrenFiltered("td")
			if cells.Length() != 4 {
				return
			}
			href, ok := cells.Eq(0).Find("a").First().Attr("href")
			if !ok {
				return
			}
			name := NameFromHref(href)
			if name == "" {
				return
			}
			reports = append(reports, store.InjuryReport{
				PlayerName: name,
				Date:       strings.TrimSpace(cells.Eq(1).Text()),
				Status:     collapse(cells.Eq(2).Text()),
				Details:    strings.TrimSpace(cells.Eq(3).Text()),
			})
		})
	})
	return reports
}

// NameFromHref turns a player link such as /sport/player/a-ja-wilson into
// "A Ja Wilson".
func NameFromHref(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(strings.TrimSpace(href), "/")
	slug := href[strings.LastIndex(href, "/")+1:]
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
