package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/hoopsync/internal/pipeline"
	"github.com/fortuna/hoopsync/internal/store"
)

const injuryPage = `<html><body>
<div class="covers-CoversSeasonInjuries-blockContainer"><table class="covers-CoversMatchups-Table"><tbody>
  <tr><td><a href="/players/a-ja-wilson">A. Wilson</a></td><td>Jul 3</td><td>Out</td><td>Knee</td></tr>
</tbody></table></div>
</body></html>`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// writeConfig points the store at a temp directory and returns the config path.
func writeConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbDir := filepath.Join(dir, "database")
	require.NoError(t, os.MkdirAll(dbDir, 0o755))
	body := fmt.Sprintf(`[paths]
database_dir = %q

[fetch]
max_retries = 1
backoff_seconds = 0
politeness_delay_seconds = 0

[logging]
level = "error"
%s
`, dbDir, extra)
	path := filepath.Join(dir, "hoopsync.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, dbDir
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, "config", "init", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	assert.FileExists(t, target)

	_, _, err = runCLI(t, "config", "init", target)
	assert.Error(t, err)

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestResolvePrintsMatch(t *testing.T) {
	cfgPath, dbDir := writeConfig(t, "")
	corpus := "PLAYER_ID,PLAYER_NAME,GAME_ID\n1628932,A'ja Wilson,1022400001\n"
	require.NoError(t, os.WriteFile(filepath.Join(dbDir, "wnba_all_player_boxscores.csv"), []byte(corpus), 0o644))

	out, _, err := runCLI(t, "-c", cfgPath, "resolve", "aja", "wilson")
	require.NoError(t, err)
	assert.Contains(t, out, "1628932")
	assert.Contains(t, out, "A'ja Wilson")

	out, _, err = runCLI(t, "-c", cfgPath, "resolve", "--threshold", "99", "aja wilson")
	require.NoError(t, err)
	assert.Contains(t, out, "No match")
}

func TestRunInjuriesOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(injuryPage))
	}))
	defer srv.Close()

	cfgPath, dbDir := writeConfig(t, fmt.Sprintf("\n[sources]\ninjury_url = %q\n", srv.URL))

	out, progress, err := runCLI(t, "-c", cfgPath, "run", "--injuries-only")
	require.NoError(t, err)
	assert.Contains(t, out, "injuries")
	assert.Contains(t, out, "success")
	assert.Contains(t, progress, "Starting injuries")

	reports, err := store.ReadInjuries(filepath.Join(dbDir, "live_injuries.json"))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "A Ja Wilson", reports[0].PlayerName)
	assert.Nil(t, reports[0].PlayerID)
}

func TestRunPublishesAndStatusReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(injuryPage))
	}))
	defer srv.Close()
	mr := miniredis.RunT(t)

	extra := fmt.Sprintf("\n[sources]\ninjury_url = %q\n\n[publisher]\nredis_url = %q\n", srv.URL, "redis://"+mr.Addr())
	cfgPath, _ := writeConfig(t, extra)

	_, _, err := runCLI(t, "-c", cfgPath, "run", "injuries")
	require.NoError(t, err)

	entries, err := mr.Stream("hoopsync.refresh")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	out, _, err := runCLI(t, "-c", cfgPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "never")
}

func TestStatusRequiresPublisher(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	_, _, err := runCLI(t, "-c", cfgPath, "status")
	assert.ErrorContains(t, err, "publisher.redis_url")
}

func TestRunFailsWithoutCorpus(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	out, _, err := runCLI(t, "-c", cfgPath, "run", "stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrFatalPrecondition)
	assert.Contains(t, out, "failed")
}

func TestSelectJobs(t *testing.T) {
	jobs, err := selectJobs(nil, false)
	require.NoError(t, err)
	assert.Equal(t, pipeline.AllJobs, jobs)

	jobs, err = selectJobs([]string{"injuries", "stats", "injuries"}, false)
	require.NoError(t, err)
	assert.Equal(t, []pipeline.JobType{pipeline.JobInjuries, pipeline.JobStats}, jobs)

	jobs, err = selectJobs(nil, true)
	require.NoError(t, err)
	assert.Equal(t, []pipeline.JobType{pipeline.JobInjuries}, jobs)

	_, err = selectJobs([]string{"stats"}, true)
	assert.Error(t, err)

	_, err = selectJobs([]string{"schedule"}, false)
	assert.Error(t, err)
}
