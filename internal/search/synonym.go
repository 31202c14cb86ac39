package search

// Aliases maps a normalized term to the names it should also match.
var Aliases = map[string][]string{
	"golang":       {"go"},
	"js":           {"javascript"},
	"ts":           {"typescript"},
	"node":         {"nodejs"},
	"postgres":     {"postgresql"},
	"psql":         {"postgresql"},
	"mongo":        {"mongodb"},
	"k8s":          {"kubernetes"},
	"gh actions":   {"github actions"},
	"spring":       {"spring boot"},
	"rn":           {"react native"},
	"react native": {"react", "mobile"},
	"frontend":     {"react", "angular", "vue", "nextjs"},
	"gcloud":       {"gcp"},
}

func AliasesOf(term string) []string {
	if term == "" {
		return []string{}
	}
	v, ok := Aliases[term]
	if !ok {
		return []string{}
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}
