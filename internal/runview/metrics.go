package runview

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SystemMetricPrefix is the reserved namespace for infrastructure telemetry
// (cpu, gpu, memory, network). Everything else is a model metric.
const SystemMetricPrefix = "system/"

// Partition splits the run's metric keys into the two chart tabs' key sets.
type Partition struct {
	Model  []string
	System []string
}

// PartitionKeys assigns every key to exactly one side, preserving the source
// order within each side.
func PartitionKeys(keys []string) Partition {
	var p Partition
	for _, k := range keys {
		if strings.HasPrefix(k, SystemMetricPrefix) {
			p.System = append(p.System, k)
		} else {
			p.Model = append(p.Model, k)
		}
	}
	return p
}

// rankThreshold rejects matches whose similarity is below this score unless
// the query appears as a substring.
const rankThreshold = 0.3

// RankKeys filters and orders keys by relevance to a fuzzy query. Substring
// hits always qualify; the rest are scored by normalized edit distance. An
// empty query returns the keys unchanged.
func RankKeys(query string, keys []string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return keys
	}

	type ranked struct {
		key   string
		score float64
	}
	var out []ranked
	for _, k := range keys {
		lower := strings.ToLower(k)
		if strings.Contains(lower, query) {
			out = append(out, ranked{k, 1.0})
			continue
		}
		longest := len(lower)
		if len(query) > longest {
			longest = len(query)
		}
		score := 1 - float64(levenshtein.ComputeDistance(lower, query))/float64(longest)
		if score >= rankThreshold {
			out = append(out, ranked{k, score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	result := make([]string, len(out))
	for i, r := range out {
		result[i] = r.key
	}
	return result
}
