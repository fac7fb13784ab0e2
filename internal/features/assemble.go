package features

import "strings"

// defaultRating is substituted for unknown rating-like schema names.
const defaultRating = 4.0

// defaultRule resolves a schema name absent from the enriched record to a
// substitute value. Rules are checked in order; the first substring match
// wins.
type defaultRule struct {
	substr string
	value  func(f map[string]float64) float64
}

// defaultRules is the declarative default policy for schema drift: names the
// calculator never produced still resolve to something plausible instead of
// failing the request. Availability over strict correctness.
var defaultRules = []defaultRule{
	{"earnings", func(f map[string]float64) float64 { return f["monthly_earnings"] }},
	{"trips", func(f map[string]float64) float64 { return f["trips_m4"] }},
	{"rating", func(map[string]float64) float64 { return defaultRating }},
}

// Assemble maps the enriched record onto the schema's exact name order.
// The result always has len(schema) entries; nothing is left unset.
func Assemble(f map[string]float64, schema []string) []float64 {
	vector := make([]float64, len(schema))
	for i, name := range schema {
		if v, ok := f[name]; ok {
			vector[i] = v
			continue
		}
		vector[i] = defaultFor(name, f)
	}
	return vector
}

func defaultFor(name string, f map[string]float64) float64 {
	lower := strings.ToLower(name)
	for _, rule := range defaultRules {
		if strings.Contains(lower, rule.substr) {
			return rule.value(f)
		}
	}
	return 0
}
