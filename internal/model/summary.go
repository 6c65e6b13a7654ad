package model

import "time"

// BatchSummary aggregates the records of one processing run.
type BatchSummary struct {
	// GeneratedAt is when the summary was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Total is the number of records.
	Total int `json:"total"`

	// Succeeded counts records without error.
	Succeeded int `json:"succeeded"`

	// Failed counts records with an error, cancelled ones included.
	Failed int `json:"failed"`

	// Cancelled counts records whose run was cancelled.
	Cancelled int `json:"cancelled"`

	// Layouts counts records per layout name.
	Layouts map[string]int `json:"layouts"`

	// FieldIDs are the distinct field ids referenced across all records,
	// in order of first appearance.
	FieldIDs []int `json:"field_ids"`

	// TrackableURLs is the number of distinct trackable URLs across all records.
	TrackableURLs int `json:"trackable_urls"`
}

// NewBatchSummary builds the summary of records. Nil records are skipped.
func NewBatchSummary(records []*ContentRecord) *BatchSummary {
	s := &BatchSummary{
		GeneratedAt: time.Now(),
		Layouts:     make(map[string]int),
		FieldIDs:    make([]int, 0),
	}

	seenIDs := make(map[int]struct{})
	seenURLs := make(map[string]struct{})

	for _, r := range records {
		if r == nil {
			continue
		}

		s.Total++
		switch {
		case r.Cancelled:
			s.Cancelled++
			s.Failed++
		case r.Failed():
			s.Failed++
		default:
			s.Succeeded++
		}

		if r.Layout != "" {
			s.Layouts[r.Layout]++
		}

		for _, id := range r.FieldIDs {
			if _, ok := seenIDs[id]; ok {
				continue
			}
			seenIDs[id] = struct{}{}
			s.FieldIDs = append(s.FieldIDs, id)
		}
		for _, u := range r.TrackableURLs {
			seenURLs[u] = struct{}{}
		}
	}

	s.TrackableURLs = len(seenURLs)
	return s
}

// HasFailures reports whether any record failed.
func (s *BatchSummary) HasFailures() bool {
	return s.Failed > 0
}
