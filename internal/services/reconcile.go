package services

import (
	"sort"
	"time"

	"secmaster/internal/models"
)

// selectBest reduces source-tagged observations to at most one row per time
// key: rows from inactive or unknown sources are dropped, the row from the
// source with the numerically lowest priority wins, and priority ties break
// deterministically on the lexicographically smallest source code. Time
// keys left with no active source produce no output row.
//
// The reduction is pure — it runs over a slice from a single range query,
// never issuing per-row lookups — and returns rows ordered by time key
// ascending.
func selectBest[T any](observations []T, timeKey func(T) time.Time, sourceOf func(T) uint, sources map[uint]models.DataSource) []T {
	type winner struct {
		obs      T
		priority int
		code     string
	}

	best := make(map[int64]winner)
	for _, obs := range observations {
		src, ok := sources[sourceOf(obs)]
		if !ok || !src.Active {
			continue
		}
		key := timeKey(obs).UTC().Unix()
		cur, seen := best[key]
		if !seen || src.Priority < cur.priority ||
			(src.Priority == cur.priority && src.Code < cur.code) {
			best[key] = winner{obs: obs, priority: src.Priority, code: src.Code}
		}
	}

	keys := make([]int64, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, best[k].obs)
	}
	return out
}
