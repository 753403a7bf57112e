package simplenotes

import "fmt"

// Outcome summarizes a Status
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
)

// DegradationReason names a fallback taken while serving a call.
type DegradationReason string

const (
	ReasonSortOrderUnavailable DegradationReason = "sort_order_unavailable"
	ReasonMetadataWriteFailed  DegradationReason = "metadata_write_failed"
	ReasonOrderedQueryFailed   DegradationReason = "ordered_query_failed"
	ReasonLocalFallback        DegradationReason = "local_fallback"
	ReasonLocalFallbackFailed  DegradationReason = "local_fallback_failed"
	ReasonBlobDeleteFailed     DegradationReason = "blob_delete_failed"
	ReasonTableMissing         DegradationReason = "table_missing"
)

// Degradation records one fallback and the error that caused it.
type Degradation struct {
	Reason DegradationReason
	Err    error
}

func (d Degradation) String() string {
	if d.Err == nil {
		return string(d.Reason)
	}
	return fmt.Sprintf("%s: %v", d.Reason, d.Err)
}

// Status reports whether a successful call ran cleanly or had to fall back.
type Status struct {
	Degradations []Degradation
}

// Outcome returns OutcomeDegraded if any fallback was taken
func (s Status) Outcome() Outcome {
	if len(s.Degradations) > 0 {
		return OutcomeDegraded
	}
	return OutcomeOK
}

// Degraded reports whether the given reason was recorded
func (s Status) Degraded(reason DegradationReason) bool {
	for _, d := range s.Degradations {
		if d.Reason == reason {
			return true
		}
	}
	return false
}

// Warnings renders the degradations for API responses
func (s Status) Warnings() []string {
	if len(s.Degradations) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(s.Degradations))
	for _, d := range s.Degradations {
		warnings = append(warnings, d.String())
	}
	return warnings
}

func (s *Status) degrade(reason DegradationReason, err error) {
	s.Degradations = append(s.Degradations, Degradation{Reason: reason, Err: err})
}
