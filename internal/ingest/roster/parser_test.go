package roster_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/hoopsync/internal/ingest/roster"
)

const pageURL = "https://en.wikipedia.org/wiki/List_of_current_WNBA_team_rosters"

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const rosterPage = `<html><body><div class="mw-parser-output">
<table class="toccolours">
  <tr><th colspan="2">Las Vegas Aces roster</th></tr>
  <tr><td>
    <table class="sortable">
      <tr><th>Pos.</th><th>No.</th><th>Nat.</th><th>Name</th><th>College</th></tr>
      <tr><td>F</td><td>22</td>
          <td><span class="flagicon"><a href="/wiki/United_States">US</a></span></td>
          <td><a href="/wiki/A%27ja_Wilson">Wilson, A'ja</a></td>
          <td><a href="/wiki/South_Carolina_Gamecocks_women%27s_basketball">South Carolina</a></td></tr>
      <tr><td>G</td><td>10</td><td></td>
          <td><a href="/wiki/File:Plum.jpg">img</a> <a href="/wiki/Kelsey_Plum">Plum, Kelsey</a><sup class="reference"><a href="#cite-1">[1]</a></sup></td>
          <td></td></tr>
    </table>
  </td></tr>
</table>
<table class="toccolours">
  <tr><th>Seattle Storm roster</th></tr>
  <tr><td><table>
      <tr><td>G</td><td>5</td><td><a href="/wiki/Jewell_Loyd">Jewell Loyd</a></td></tr>
      <tr><td>G</td><td>5</td><td><a href="/wiki/Jewell_Loyd">Jewell Loyd</a></td></tr>
  </table></td></tr>
</table>
<table class="toccolours">
  <tr><th>Toronto Tempo roster</th></tr>
  <tr><td><table><tr><td>G</td><td><a href="/wiki/Someone">Someone</a></td></tr></table></td></tr>
</table>
</div></body></html>`

func TestParseRosters(t *testing.T) {
	page := roster.ParseRosters(mustDoc(t, rosterPage), pageURL)

	require.Len(t, page.Entries, 3)
	assert.Equal(t, roster.Entry{
		Name:     "A'ja Wilson",
		URL:      "https://en.wikipedia.org/wiki/A%27ja_Wilson",
		Team:     "LVA",
		Position: "F",
	}, page.Entries[0])
	assert.Equal(t, "Kelsey Plum", page.Entries[1].Name)
	assert.Equal(t, "G", page.Entries[1].Position)
	assert.Equal(t, "SEA", page.Entries[2].Team)
	assert.Equal(t, []string{"Toronto Tempo roster"}, page.UnknownTeams)
}

const allPlayersPage = `<html><body><div class="mw-parser-output">
<div id="toc" class="toc"><ul><li><a href="#A">A</a></li></ul></div>
<h2>A</h2>
<ul>
  <li><a href="/wiki/Ashley_Battle">Ashley Battle</a> (2005)</li>
  <li><a href="/wiki/Seimone_Augustus">Seimone Augustus</a></li>
  <li><a href="/w/index.php?title=Red_Link&amp;action=edit">Red Link</a></li>
</ul>
<table class="wikitable">
  <tr><th>Player</th><th>Team</th></tr>
  <tr><td><a href="/wiki/Seimone_Augustus">Augustus, Seimone</a></td><td><a href="/wiki/Minnesota_Lynx">Lynx</a></td></tr>
  <tr><td><a href="/wiki/Lisa_Leslie">Lisa Leslie</a></td><td></td></tr>
</table>
<div class="navbox"><ul><li><a href="/wiki/Women%27s_National_Basketball_Association">WNBA</a></li></ul></div>
</div></body></html>`

func TestParseAllPlayers(t *testing.T) {
	entries := roster.ParseAllPlayers(mustDoc(t, allPlayersPage), "https://en.wikipedia.org/wiki/List")

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
		assert.Empty(t, e.Team)
		assert.True(t, strings.HasPrefix(e.URL, "https://en.wikipedia.org/wiki/"), e.URL)
	}
	assert.Equal(t, []string{"Seimone Augustus", "Lisa Leslie", "Ashley Battle"}, names)
}

func TestParsePosition(t *testing.T) {
	doc := mustDoc(t, `<table class="infobox">
		<tr><th>Born</th><td>1996</td></tr>
		<tr><th>Position</th><td>Power  forward /
			center</td></tr>
	</table>`)
	pos, ok := roster.ParsePosition(doc)
	require.True(t, ok)
	assert.Equal(t, "Power forward / center", pos)

	_, ok = roster.ParsePosition(mustDoc(t, `<table class="infobox"><tr><th>Born</th><td>1996</td></tr></table>`))
	assert.False(t, ok)
}

func TestTeamAbbreviation(t *testing.T) {
	cases := map[string]string{
		"Las Vegas Aces":              "LVA",
		"Las Vegas Aces roster":       "LVA",
		"  new   york liberty ":       "NYL",
		"Golden State Valkyries 2025": "GSV",
		"Los Angeles Sparks":          "LAS",
		"Phoenix":                     "PHO",
	}
	for in, want := range cases {
		got, ok := roster.TeamAbbreviation(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := roster.TeamAbbreviation("Toronto Tempo")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "A'ja Wilson", roster.DisplayName(" Wilson,  A'ja "))
	assert.Equal(t, "Lisa Leslie", roster.DisplayName("Lisa Leslie"))
	assert.Equal(t, "John Smith, Jr.", roster.DisplayName("John Smith, Jr."))
}
