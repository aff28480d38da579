package normalize

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"recruit-sync/feature/record"
)

// dateLayouts are tried in order. Layouts without a year get the current year.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006年1月2日",
	"1-2",
	"1/2",
}

// yearlessLayouts marks the layouts that carry no year component.
var yearlessLayouts = map[string]bool{
	"1-2": true,
	"1/2": true,
}

// affirmative is the token set recognized as true for the written-test flag.
var affirmative = map[string]bool{
	"yes":    true,
	"是":     true,
	"true":   true,
	"1":      true,
	"免笔试": true,
}

// citySeparators are tried in order; the first one present in the value is
// used to split it.
var citySeparators = []string{",", "、", "/", "|", "；", ";"}

// Normalizer converts loosely-typed field maps into fully populated canonical
// records. Every field of its output is set: missing or unparseable values
// resolve to the aggressive defaults, never to an error.
type Normalizer struct {
	logger *zap.Logger
	now    func() time.Time

	processed  int
	normalized int
}

// NewNormalizer creates a normalizer.
func NewNormalizer(log *zap.Logger) *Normalizer {
	return &Normalizer{
		logger: log,
		now:    time.Now,
	}
}

// Record normalizes a single raw field map into a canonical record.
func (n *Normalizer) Record(raw map[string]any) record.Record {
	n.processed++

	fields := record.CanonicalizeKeys(raw)

	out := record.Record{
		CompanyName:   normalizeText(fields["company_name"]),
		Position:      normalizeText(fields["position"]),
		Source:        normalizeURL(fields["source"]),
		PublishDate:   n.normalizeDate(fields["publish_date"]),
		Deadline:      n.normalizeDate(fields["deadline"]),
		Batch:         normalizeBatch(fields["batch"]),
		CompanyType:   normalizeEnum(fields["company_type"], record.CompanyTypeOptions, record.DefaultCompanyType),
		Industry:      normalizeEnum(fields["industry"], record.IndustryOptions, record.DefaultIndustry),
		City:          normalizeList(fields["city"]),
		Education:     normalizeEnum(fields["education"], record.EducationOptions, record.DefaultEducation),
		Target:        normalizeTargets(fields["target"]),
		NoWrittenTest: normalizeBool(fields["no_written_test"]),
		ReferralCode:  normalizeText(fields["referral_code"]),
	}

	n.normalized++
	return out
}

// Records normalizes a batch of raw field maps.
func (n *Normalizer) Records(raw []map[string]any) []record.Record {
	out := make([]record.Record, 0, len(raw))
	for _, fields := range raw {
		out = append(out, n.Record(fields))
	}

	n.logger.Info("Normalized records", zap.Int("count", len(out)))
	return out
}

// Stats returns the processed and normalized counters.
func (n *Normalizer) Stats() (processed, normalized int) {
	return n.processed, n.normalized
}

func normalizeText(value any) string {
	return record.CollapseSpaces(record.ToString(value))
}

func normalizeURL(value any) string {
	url := strings.TrimSpace(record.ToString(value))
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

// normalizeDate parses a date value. Missing or unparseable input falls back
// to the current processing time, so the output date is never absent.
func (n *Normalizer) normalizeDate(value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case *time.Time:
		if v != nil {
			return v
		}
	case string:
		if parsed, ok := parseDate(v, n.now); ok {
			return parsed
		}
	}

	now := n.now()
	return &now
}

// parseDate tries the known layouts in order. Year-less layouts are completed
// with the current year.
func parseDate(value string, now func() time.Time) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if yearlessLayouts[layout] {
			parsed = time.Date(now().Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, parsed.Location())
		}
		return &parsed, true
	}
	return nil, false
}

// normalizeBatch maps a value onto a recognized season label when one is
// contained in it; anything else passes through trimmed.
func normalizeBatch(value any) string {
	text := strings.TrimSpace(record.ToString(value))
	if text == "" {
		return ""
	}

	for _, label := range record.BatchLabels {
		if strings.Contains(text, label) {
			return label
		}
	}
	return text
}

// normalizeEnum resolves a value against a closed option set, falling back to
// the given default. List input collapses to its first element.
func normalizeEnum(value any, options []string, fallback string) string {
	if !record.Truthy(value) {
		return fallback
	}

	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return fallback
		}
		value = list[0]
	}
	if list, ok := value.([]string); ok {
		if len(list) == 0 {
			return fallback
		}
		value = list[0]
	}

	text := strings.TrimSpace(record.ToString(value))
	if resolved, ok := record.ResolveOption(text, options); ok {
		return resolved
	}
	return fallback
}

// normalizeList turns a city value into a list: lists are stringified with
// blanks dropped, strings are split on the first known separator found.
func normalizeList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any, []string:
		var out []string
		for _, item := range record.ToStringSlice(v) {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		for _, sep := range citySeparators {
			if strings.Contains(trimmed, sep) {
				var out []string
				for _, part := range strings.Split(trimmed, sep) {
					if p := strings.TrimSpace(part); p != "" {
						out = append(out, p)
					}
				}
				return out
			}
		}
		return []string{trimmed}
	default:
		return nil
	}
}

// normalizeTargets resolves the recruitment cohort list. List input is
// filtered to the closed option set; string input is scanned for every option
// it contains. Nothing matching falls back to the most recent cohort.
func normalizeTargets(value any) []string {
	if !record.Truthy(value) {
		return record.DefaultTarget()
	}

	switch v := value.(type) {
	case []any, []string:
		var out []string
		for _, item := range record.ToStringSlice(v) {
			trimmed := strings.TrimSpace(item)
			for _, option := range record.TargetOptions {
				if trimmed == option {
					out = append(out, option)
					break
				}
			}
		}
		if len(out) == 0 {
			return record.DefaultTarget()
		}
		return out
	case string:
		var out []string
		for _, option := range record.TargetOptions {
			if strings.Contains(v, option) {
				out = append(out, option)
			}
		}
		if len(out) == 0 {
			return record.DefaultTarget()
		}
		return out
	default:
		return record.DefaultTarget()
	}
}

// normalizeBool passes native booleans through, matches strings against the
// affirmative token set, and coerces anything else by generic truthiness.
func normalizeBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return affirmative[strings.ToLower(strings.TrimSpace(v))]
	default:
		return record.Truthy(value)
	}
}
