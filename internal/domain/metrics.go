// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPayload is returned by Validate when a decoded payload breaks one of
// the documented value ranges.
var ErrInvalidPayload = errors.New("invalid metrics payload")

// MetricsPayload is the aggregate job-application metrics document served by
// the backend at /dashboard-metrics. It is never mutated after decoding.
type MetricsPayload struct {
	TotalApplications      int          `json:"total_applications" yaml:"total_applications" validate:"gte=0"`
	InterviewRate          float64      `json:"interview_rate" yaml:"interview_rate" validate:"gte=0,lte=100"`
	OfferRate              float64      `json:"offer_rate" yaml:"offer_rate" validate:"gte=0,lte=100"`
	AvgTimeToResponse      float64      `json:"avg_time_to_response" yaml:"avg_time_to_response"`
	ApplicationsLast7Days  int          `json:"applications_last_7_days" yaml:"applications_last_7_days" validate:"gte=0"`
	ApplicationsLast30Days int          `json:"applications_last_30_days" yaml:"applications_last_30_days" validate:"gte=0"`
	ActiveApplications     int          `json:"active_applications" yaml:"active_applications" validate:"gte=0"`
	ApplicationsByStatus   StatusCounts `json:"applications_by_status" yaml:"applications_by_status" validate:"dive"`
	ApplicationsPerWeek    []WeekCount  `json:"applications_per_week" yaml:"applications_per_week" validate:"dive"`
	ApplicationsPerMonth   []MonthCount `json:"applications_per_month" yaml:"applications_per_month" validate:"dive"`
}

// HasResponseTime reports whether the average time to response is known.
// The backend sends 0 when no application has had a response yet.
func (p *MetricsPayload) HasResponseTime() bool {
	return p.AvgTimeToResponse > 0
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks the payload against the ranges the backend promises.
// Decoding never calls it; callers opt in.
func (p *MetricsPayload) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// WeekCount is one ISO week bucket, labelled like "2024-W07".
type WeekCount struct {
	Week  string `json:"week" yaml:"week"`
	Count int    `json:"count" yaml:"count" validate:"gte=0"`
}

// MonthCount is one calendar month bucket, labelled like "Feb 2024".
type MonthCount struct {
	Month string `json:"month" yaml:"month"`
	Count int    `json:"count" yaml:"count" validate:"gte=0"`
}

// StatusCount is the number of applications currently in one status.
type StatusCount struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count" validate:"gte=0"`
}

// StatusCounts is the applications_by_status object decoded in the key order
// it was received in. That order breaks ties in the status breakdown.
type StatusCounts []StatusCount

// UnmarshalJSON decodes a JSON object of status → count. A repeated key keeps
// its first position and takes the last value.
func (s *StatusCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("applications_by_status: expected object, got %v", tok)
	}

	counts := StatusCounts{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("applications_by_status: unexpected key %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("applications_by_status[%q]: %w", key, err)
		}
		if i, seen := index[key]; seen {
			counts[i].Count = count
			continue
		}
		index[key] = len(counts)
		counts = append(counts, StatusCount{Status: key, Count: count})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = counts
	return nil
}

// MarshalJSON writes the counts back as a JSON object, keeping their order.
func (s StatusCounts) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Status)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", sc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SortedByCount returns a copy ordered by count, highest first.
// Equal counts stay in received order.
func (s StatusCounts) SortedByCount() StatusCounts {
	sorted := make(StatusCounts, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}
