package record

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical serialization of dates, both in the dedup key
// and on the wire to the remote table.
const DateLayout = "2006-01-02"

// Record is the canonical form of a recruitment posting. The normalizer
// produces it from a loosely-typed field map; every downstream component
// operates on this type.
type Record struct {
	// CompanyName is the hiring company. Required downstream of the cleaner.
	CompanyName string
	// Position is the advertised role. Required downstream of the cleaner.
	Position string
	// Source is the posting URL, always carrying a scheme when non-empty.
	Source string
	// PublishDate is when the posting was published or last updated.
	// The normalizer always sets it; the cleaner may leave it absent.
	PublishDate *time.Time
	// Deadline is the application deadline, if any.
	Deadline *time.Time
	// Batch is the recruitment season label (春招, 秋招提前批, ...).
	Batch string
	// CompanyType is one of CompanyTypeOptions.
	CompanyType string
	// Industry is one of IndustryOptions.
	Industry string
	// City lists the work locations, order-insignificant, no duplicates.
	City []string
	// Education is one of EducationOptions.
	Education string
	// Target lists the recruitment cohorts, drawn from TargetOptions.
	Target []string
	// NoWrittenTest reports whether the written test is waived.
	NoWrittenTest bool
	// ReferralCode is the internal referral code, whitespace stripped.
	ReferralCode string
}

// DedupKey returns the identity of the posting: company name, position and
// publish date joined by "|". Two records with the same key are the same
// logical posting regardless of any other field.
func (r Record) DedupKey() string {
	return strings.Join([]string{
		keyPart(r.CompanyName),
		keyPart(r.Position),
		keyPart(r.PublishDate),
	}, "|")
}

// keyPart serializes one dedup key component: dates as YYYY-MM-DD, lists as
// their sorted comma-joined elements, everything else as-is.
func keyPart(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(DateLayout)
	case time.Time:
		return t.Format(DateLayout)
	case []string:
		sorted := make([]string, len(t))
		copy(sorted, t)
		sort.Strings(sorted)
		return strings.Join(sorted, ",")
	default:
		return ToString(t)
	}
}
