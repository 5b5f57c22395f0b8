package models

import "strings"

// UnknownLabel marks a present value that falls outside its closed vocabulary.
const UnknownLabel = "UNKNOWN"

// EnumSet is a closed vocabulary of upper-case categorical values.
type EnumSet map[string]struct{}

// NewEnumSet builds a closed vocabulary from its members.
func NewEnumSet(values ...string) EnumSet {
	set := make(EnumSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Normalize trims and upper-cases raw, returning it only when it belongs to the set.
func (s EnumSet) Normalize(raw string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := s[v]; !ok {
		return "", false
	}
	return v, true
}

// NormalizePtr is the write-path variant: unrecognized or absent values become nil.
func (s EnumSet) NormalizePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	v, ok := s.Normalize(*raw)
	if !ok {
		return nil
	}
	return &v
}

// Label is the read-path variant: unrecognized values collapse to UnknownLabel so totals reconcile.
func (s EnumSet) Label(raw string) string {
	if v, ok := s.Normalize(raw); ok {
		return v
	}
	return UnknownLabel
}

const (
	SourceQR    = "QR"
	SourceStaff = "STAFF"
	SourceUSSD  = "USSD"
	SourcePaper = "PAPER"
)

var (
	// Sources are the channels a response can arrive through.
	Sources = NewEnumSet(SourceQR, SourceStaff, SourceUSSD, SourcePaper)
	// VisitFrequencies buckets how often a respondent visits.
	VisitFrequencies = NewEnumSet("FIRST_TIME", "DAILY", "WEEKLY", "MONTHLY")
	// FastExitReasons explains why a respondent left quickly.
	FastExitReasons = NewEnumSet("QUEUE", "NO_STOCK", "PRICE", "SERVICE", "OTHER")
	// YesNo is the vocabulary of YES_NO answers.
	YesNo = NewEnumSet("YES", "NO")
)
