// Package reconciliation folds freshly fetched data into the canonical store.
//
// Two independent pieces live here. IdentityIndex maps loosely formatted
// player names onto canonical player ids, exactly when possible and by
// token-set similarity otherwise. Merge combines fetched boxscore rows with
// the historical corpus, keeping one row per (PLAYER_ID, GAME_ID) and letting
// fresh rows win.
package reconciliation
