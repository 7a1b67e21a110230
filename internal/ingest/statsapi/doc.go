// Package statsapi reads per-game player logs from the league stats feed.
package statsapi
