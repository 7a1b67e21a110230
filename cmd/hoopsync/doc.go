// Command hoopsync keeps a local WNBA statistics store current: it merges the
// latest season game logs into the historical boxscore corpus, rebuilds the
// player profile cache, and refreshes the injury list.
package main
