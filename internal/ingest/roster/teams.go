package roster

import "strings"

// teamAbbreviations maps lower-cased franchise and city names to the league
// abbreviation.
var teamAbbreviations = map[string]string{
	"atlanta dream":          "ATL",
	"atlanta":                "ATL",
	"chicago sky":            "CHI",
	"chicago":                "CHI",
	"connecticut sun":        "CON",
	"connecticut":            "CON",
	"dallas wings":           "DAL",
	"dallas":                 "DAL",
	"golden state valkyries": "GSV",
	"golden state":           "GSV",
	"indiana fever":          "IND",
	"indiana":                "IND",
	"las vegas aces":         "LVA",
	"las vegas":              "LVA",
	"los angeles sparks":     "LAS",
	"los angeles":            "LAS",
	"minnesota lynx":         "MIN",
	"minnesota":              "MIN",
	"new york liberty":       "NYL",
	"new york":               "NYL",
	"phoenix mercury":        "PHO",
	"phoenix":                "PHO",
	"seattle storm":          "SEA",
	"seattle":                "SEA",
	"washington mystics":     "WAS",
	"washington":             "WAS",
}

// TeamAbbreviation maps a team heading such as "Las Vegas Aces roster" to
// "LVA". An exact name wins; otherwise the longest known name contained in
// the heading is used.
func TeamAbbreviation(heading string) (string, bool) {
	name := strings.ToLower(strings.Join(strings.Fields(heading), " "))
	if abbr, ok := teamAbbreviations[name]; ok {
		return abbr, true
	}
	best := ""
	for key := range teamAbbreviations {
		if strings.Contains(name, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return "", false
	}
	return teamAbbreviations[best], true
}
