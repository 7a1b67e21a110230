// Package roster scrapes player lists from encyclopedia pages: the current
// team rosters, the all-time player list, and a player's infobox position.
//
// Page layouts are not a stable contract. Parsers skip what they cannot read
// rather than failing the whole page.
package roster
