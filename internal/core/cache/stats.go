package cache

// Stats tracks cache effectiveness. Counters are mutated only by Get,
// under the cache lock; Stats() hands out value copies.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// HitRate returns hits/(hits+misses), or 0 when no lookups were made.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
