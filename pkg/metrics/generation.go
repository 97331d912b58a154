package metrics

// GenerationStats captures the outcome of a single synthesis cycle.
type GenerationStats struct {
	Candidates int  `json:"candidates"`
	Deduped    int  `json:"deduped"`
	Persisted  int  `json:"persisted"`
	Urgent     int  `json:"urgent"`
	Synthetic  bool `json:"syntheticSnapshot"`
}

// IsZero reports whether the cycle produced nothing at all.
func (s GenerationStats) IsZero() bool {
	return s.Candidates == 0 && s.Deduped == 0 && s.Persisted == 0 && s.Urgent == 0
}
