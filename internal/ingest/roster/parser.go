package roster

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
)

// Entry is a player link found on a list page. Team and Position are empty
// when the page does not carry them.
type Entry struct {
	Name     string
	URL      string
	Team     string
	Position string
}

// RosterPage is the result of parsing the current-rosters page.
type RosterPage struct {
	Entries []Entry
	// UnknownTeams lists headings that did not map to a franchise.
	UnknownTeams []string
}

// FetchRosters downloads and parses the current-rosters page.
func FetchRosters(ctx context.Context, src fetch.PageSource, pageURL string) (RosterPage, error) {
	doc, err := load(ctx, src, pageURL)
	if err != nil {
		return RosterPage{}, err
	}
	return ParseRosters(doc, pageURL), nil
}

// FetchAllPlayers downloads and parses the all-time player list.
func FetchAllPlayers(ctx context.Context, src fetch.PageSource, pageURL string) ([]Entry, error) {
	doc, err := load(ctx, src, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseAllPlayers(doc, pageURL), nil
}

// FetchPosition reads the position from a player's page infobox.
func FetchPosition(ctx context.Context, src fetch.PageSource, pageURL string) (string, error) {
	doc, err := load(ctx, src, pageURL)
	if err != nil {
		return "", err
	}
	pos, ok := ParsePosition(doc)
	if !ok {
		return "", fmt.Errorf("no position in infobox at %s", pageURL)
	}
	return pos, nil
}

// ParseRosters reads one table.toccolours per team. The team comes from the
// table heading; players come from rows of the nested list table that carry
// a position cell and a player link.
func ParseRosters(doc *goquery.Document, pageURL string) RosterPage {
	var page RosterPage
	seen := make(map[string]struct{})

	doc.Find("table.toccolours").Each(func(_ int, table *goquery.Selection) {
		heading := strings.TrimSpace(table.Find("th").First().Text())
		team, ok := TeamAbbreviation(heading)
		if !ok {
			if heading != "" {
				page.UnknownTeams = append(page.UnknownTeams, heading)
			}
			return
		}

		table.Find("table").Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.ChildrenFiltered("td")
			if cells.Length() < 2 {
				return
			}
			link := playerLink(row)
			if link == nil {
				return
			}
			href, _ := link.Attr("href")
			abs := absolute(pageURL, href)
			if _, dup := seen[abs]; dup {
				return
			}
			seen[abs] = struct{}{}
			page.Entries = append(page.Entries, Entry{
				Name:     DisplayName(link.Text()),
				URL:      abs,
				Team:     team,
				Position: strings.TrimSpace(cells.First().Text()),
			})
		})
	})
	return page
}

// ParseAllPlayers collects the first player link of every wikitable row and
// every list item of the article body, de-duplicated by URL.
func ParseAllPlayers(doc *goquery.Document, pageURL string) []Entry {
	var entries []Entry
	seen := make(map[string]struct{})
	add := func(link *goquery.Selection) {
		if link == nil {
			return
		}
		href, _ := link.Attr("href")
		abs := absolute(pageURL, href)
		if _, dup := seen[abs]; dup {
			return
		}
		name := DisplayName(link.Text())
		if name == "" {
			return
		}
		seen[abs] = struct{}{}
		entries = append(entries, Entry{Name: name, URL: abs})
	}

	doc.Find("table.wikitable tr").Each(func(_ int, row *goquery.Selection) {
		add(playerLink(row))
	})
	body := doc.Find("div.mw-parser-output")
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	body.Find("ul > li").Each(func(_ int, item *goquery.Selection) {
		if item.Closest("table, .navbox, .reflist, .toc, #toc, .mw-references-wrap").Length() > 0 {
			return
		}
		add(playerLink(item))
	})
	return entries
}

// ParsePosition returns the value of the infobox row labelled Position.
func ParsePosition(doc *goquery.Document) (string, bool) {
	var position string
	doc.Find("table.infobox tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := strings.TrimSpace(row.ChildrenFiltered("th").First().Text())
		if !strings.HasPrefix(strings.ToLower(label), "position") {
			return true
		}
		position = strings.Join(strings.Fields(row.ChildrenFiltered("td").First().Text()), " ")
		return position == ""
	})
	return position, position != ""
}

// DisplayName tidies link text and turns "Wilson, A'ja" into "A'ja Wilson".
func DisplayName(text string) string {
	name := strings.Join(strings.Fields(text), " ")
	last, first, ok := strings.Cut(name, ", ")
	if !ok || strings.Contains(first, ",") || isSuffix(first) {
		return name
	}
	return first + " " + last
}

func isSuffix(s string) bool {
	switch strings.ToLower(strings.TrimSuffix(s, ".")) {
	case "jr", "sr", "ii", "iii", "iv":
		return true
	}
	return false
}

// playerLink returns the first article link in s that is not a flag, file,
// or citation link.
func playerLink(s *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if a.Closest(".flagicon, sup, .reference").Length() > 0 {
			return true
		}
		href, _ := a.Attr("href")
		if !isArticleLink(href) || strings.TrimSpace(a.Text()) == "" {
			return true
		}
		found = a
		return false
	})
	return found
}

func isArticleLink(href string) bool {
	if strings.HasPrefix(href, "#") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if !strings.HasPrefix(u.Path, "/wiki/") {
		return false
	}
	title := strings.TrimPrefix(u.Path, "/wiki/")
	return !strings.Contains(title, ":")
}

func absolute(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

func load(ctx context.Context, src fetch.PageSource, pageURL string) (*goquery.Document, error) {
	html, err := src.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}
