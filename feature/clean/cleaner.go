package clean

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"recruit-sync/feature/record"
)

// dateLayouts accepted when re-parsing a date that arrives as text. The
// trailing layout tolerates a time-of-day suffix.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006年1月2日",
	"1-2",
	"1/2",
	"2006-1-2 15:04:05",
}

// affirmative is the token set recognized as true. Slightly wider than the
// normalizer's set; sources abbreviate 免笔试 to 免笔.
var affirmative = map[string]bool{
	"yes":    true,
	"是":     true,
	"true":   true,
	"1":      true,
	"免笔试": true,
	"免笔":   true,
}

// citySeparators are tried in order. A plain space counts as a separator
// here, unlike in the normalizer.
var citySeparators = []string{",", "、", "/", "|", " ", "；", ";"}

// Cleaner validates and re-touches normalized records. Its defaulting is
// deliberately weaker than the normalizer's: unresolvable dates stay absent
// and unresolvable enums fall back to 其他 or empty rather than a permissive
// default.
type Cleaner struct {
	logger *zap.Logger

	processed int
	cleaned   int
	invalid   int
}

// NewCleaner creates a cleaner.
func NewCleaner(log *zap.Logger) *Cleaner {
	return &Cleaner{logger: log}
}

// Record cleans a single record. The second return value is false when the
// record fails the validity gate (blank company name or position); nothing
// else rejects a record.
func (c *Cleaner) Record(rec record.Record) (record.Record, bool) {
	c.processed++

	if strings.TrimSpace(rec.CompanyName) == "" || strings.TrimSpace(rec.Position) == "" {
		c.invalid++
		c.logger.Debug("Dropping record with blank required field",
			zap.String("company_name", rec.CompanyName),
			zap.String("position", rec.Position))
		return record.Record{}, false
	}
	c.cleaned++

	out := rec
	out.CompanyName = cleanText(rec.CompanyName)
	out.Position = cleanText(rec.Position)
	out.Source = cleanURL(rec.Source)
	out.Batch = cleanBatch(rec.Batch)
	out.CompanyType = cleanCompanyType(rec.CompanyType)
	out.Industry = cleanIndustry(rec.Industry)
	out.City = cleanCities(rec.City)
	out.Education = cleanEducation(rec.Education)
	out.Target = cleanTargets(rec.Target)
	out.ReferralCode = cleanReferralCode(rec.ReferralCode)

	return out, true
}

// Records cleans a batch, keeping only valid records.
func (c *Cleaner) Records(recs []record.Record) []record.Record {
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		if cleaned, ok := c.Record(rec); ok {
			out = append(out, cleaned)
		}
	}

	c.logger.Info("Cleaned records",
		zap.Int("cleaned", c.cleaned),
		zap.Int("processed", c.processed),
		zap.Int("invalid", c.invalid))

	return out
}

// Stats returns the processed, cleaned and invalid counters.
func (c *Cleaner) Stats() (processed, cleaned, invalid int) {
	return c.processed, c.cleaned, c.invalid
}

// cleanText folds fullwidth parentheses to ASCII and collapses whitespace.
func cleanText(value string) string {
	value = strings.ReplaceAll(value, "（", "(")
	value = strings.ReplaceAll(value, "）", ")")
	return record.CollapseSpaces(value)
}

func cleanURL(value string) string {
	url := strings.TrimSpace(value)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

// CleanDateText parses a date that arrives as text, for sources that bypass
// the normalizer. Unparseable input yields nil, not a fallback.
func CleanDateText(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}

// cleanBatch maps an exact season label to itself; anything else passes
// through trimmed.
func cleanBatch(value string) string {
	text := strings.TrimSpace(value)
	for _, label := range record.BatchLabels {
		if text == label {
			return label
		}
	}
	return text
}

// cleanCompanyType resolves against the option set, then the synonym table,
// then falls back to 其他.
func cleanCompanyType(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if resolved, ok := record.ResolveOption(text, record.CompanyTypeOptions); ok {
		return resolved
	}
	if resolved, ok := record.ResolveVariant(text, record.CompanyTypeVariants); ok {
		return resolved
	}
	return record.OptionOther
}

func cleanIndustry(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if resolved, ok := record.ResolveOption(text, record.IndustryOptions); ok {
		return resolved
	}
	if resolved, ok := record.ResolveVariant(text, record.IndustryVariants); ok {
		return resolved
	}
	return record.OptionOther
}

// cleanEducation resolves against the option set and synonym table; unclear
// but non-empty values fall back to 本科及以上.
func cleanEducation(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if resolved, ok := record.ResolveOption(text, record.EducationOptions); ok {
		return resolved
	}
	if resolved, ok := record.ResolveVariant(text, record.EducationVariants); ok {
		return resolved
	}
	return record.DefaultEducation
}

func cleanCities(value []string) []string {
	var out []string
	for _, city := range value {
		trimmed := strings.TrimSpace(city)
		if trimmed == "" {
			continue
		}
		out = append(out, splitCity(trimmed)...)
	}
	return out
}

// splitCity splits a city value on the first separator present, trying the
// separators in declared order.
func splitCity(value string) []string {
	for _, sep := range citySeparators {
		if strings.Contains(value, sep) {
			var out []string
			for _, part := range strings.Split(value, sep) {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return []string{value}
}

// cleanTargets keeps known cohort labels and drops blanks. An input with
// content but no recognized label keeps its trimmed values.
func cleanTargets(value []string) []string {
	var out []string
	for _, target := range value {
		if trimmed := strings.TrimSpace(target); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// cleanReferralCode strips all spaces from the code.
func cleanReferralCode(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), " ", "")
}

// TruthyText reports whether a textual flag value reads as affirmative.
func TruthyText(value string) bool {
	return affirmative[strings.ToLower(strings.TrimSpace(value))]
}
