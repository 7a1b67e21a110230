package injuries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/hoopsync/internal/ingest/injuries"
	"github.com/fortuna/hoopsync/internal/store"
)

const injuryPage = `<html><body>
<div class="covers-CoversSeasonInjuries-blockContainer">
  <h2>Las Vegas Aces</h2>
  <table class="covers-CoversMatchups-Table">
    <thead><tr><th>Player</th><th>Date</th><th>Status</th><th>Details</th></tr></thead>
    <tbody>
      <tr>
        <td><a href="/sport/basketball/wnba/players/a-ja-wilson">A. Wilson</a></td>
        <td> Thu, Jul 3 </td>
        <td>Day-To-Day
            (Jul 5)</td>
        <td>Ankle; questionable Saturday</td>
      </tr>
      <tr><td colspan="4">No injuries to report.</td></tr>
    </tbody>
  </table>
</div>
<div class="covers-CoversSeasonInjuries-blockContainer">
  <table class="covers-CoversMatchups-Table">
    <tbody>
      <tr><td>No injuries</td><td></td><td></td><td></td></tr>
      <tr>
        <td><a href="https://www.covers.com/sport/basketball/wnba/players/breanna-stewart/">B. Stewart</a></td>
        <td>Jul 1</td><td>Out</td><td>Knee</td>
      </tr>
      <tr><td>Plain Name</td><td>Jul 1</td><td>Out</td><td>Knee</td></tr>
      <tr><td><a href="/x/y">short</a></td><td>Jul 1</td><td>Out</td></tr>
    </tbody>
  </table>
</div>
<div class="covers-CoversSeasonInjuries-blockContainer"><p>Table missing</p></div>
</body></html>`

func TestParseInjuryPage(t *testing.T) {
	reports, err := injuries.Parse(injuryPage)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, store.InjuryReport{
		PlayerName: "A Ja Wilson",
		Date:       "Thu, Jul 3",
		Status:     "Day-To-Day (Jul 5)",
		Details:    "Ankle; questionable Saturday",
	}, reports[0])
	assert.Equal(t, "Breanna Stewart", reports[1].PlayerName)
	assert.Equal(t, "Out", reports[1].Status)
	assert.Nil(t, reports[1].PlayerID)
}

func TestParseEmptyPageYieldsEmptyList(t *testing.T) {
	reports, err := injuries.Parse("<html><body><p>maintenance</p></body></html>")
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestNameFromHref(t *testing.T) {
	assert.Equal(t, "A Ja Wilson", injuries.NameFromHref("/players/a-ja-wilson"))
	assert.Equal(t, "Kelsey Plum", injuries.NameFromHref("/players/kelsey-plum/?tab=injuries"))
	assert.Equal(t, "", injuries.NameFromHref("/"))
}

type pageFunc func(ctx context.Context, url string) (string, error)

func (f pageFunc) FetchPage(ctx context.Context, url string) (string, error) { return f(ctx, url) }

func TestFetchPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("403")
	_, err := injuries.Fetch(t.Context(), pageFunc(func(context.Context, string) (string, error) {
		return "", boom
	}), "https://example.test/injuries")
	assert.ErrorIs(t, err, boom)

	reports, err := injuries.Fetch(t.Context(), pageFunc(func(_ context.Context, url string) (string, error) {
		assert.Equal(t, "https://example.test/injuries", url)
		return injuryPage, nil
	}), "https://example.test/injuries")
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}
