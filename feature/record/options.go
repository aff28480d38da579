package record

import "strings"

// Closed option sets of the remote table's select fields. Order matters: the
// fuzzy resolvers try options in declared order and the first match wins.
var (
	CompanyTypeOptions = []string{"民营企业", "国有企业", "央企", "外资企业", "创业公司", "其他"}
	IndustryOptions    = []string{"互联网", "金融", "制造业", "教育", "医疗", "房地产", "零售", "能源", "其他"}
	EducationOptions   = []string{"本科", "硕士", "博士", "本科及以上", "硕士及以上", "不限"}
	TargetOptions      = []string{"2026届", "2025届", "2024届", "往届"}
)

// Defaults applied by the normalizer when a value cannot be resolved.
const (
	DefaultCompanyType = "民营企业"
	DefaultIndustry    = "互联网"
	DefaultEducation   = "本科及以上"
	OptionOther        = "其他"
)

// DefaultTarget returns the fallback cohort set: the most recent class.
func DefaultTarget() []string {
	return []string{TargetOptions[0]}
}

// BatchLabels are the recognized recruitment season labels, scanned in
// declared order so that the more specific 春招提前批 wins over 春招.
var BatchLabels = []string{
	"春招提前批",
	"春招",
	"春招补录",
	"秋招提前批",
	"秋招",
	"秋招补录",
	"寒假实习",
	"暑期实习",
	"日常实习",
}

// ResolveOption maps a free-form value onto a closed option set. Resolution
// order: exact match, then substring in either direction trying options in
// declared order. Returns false when nothing matches.
func ResolveOption(value string, options []string) (string, bool) {
	if value == "" {
		return "", false
	}
	for _, opt := range options {
		if value == opt {
			return opt, true
		}
	}
	for _, opt := range options {
		if strings.Contains(value, opt) || strings.Contains(opt, value) {
			return opt, true
		}
	}
	return "", false
}

// Variant maps a frequently-seen synonym onto a canonical option.
type Variant struct {
	Keyword string
	Option  string
}

// Synonym tables used by the cleaner after fuzzy matching fails. Tried in
// declared order; the first keyword contained in the value wins.
var (
	CompanyTypeVariants = []Variant{
		{"民营", "民营企业"},
		{"国企", "国有企业"},
		{"央企", "央企"},
		{"外企", "外资企业"},
		{"创业", "创业公司"},
	}
	IndustryVariants = []Variant{
		{"IT", "互联网"},
		{"软件", "互联网"},
		{"电商", "互联网"},
		{"游戏", "互联网"},
		{"银行", "金融"},
		{"证券", "金融"},
		{"基金", "金融"},
		{"保险", "金融"},
	}
	EducationVariants = []Variant{
		{"本科", "本科"},
		{"学士", "本科"},
		{"硕士", "硕士"},
		{"研究生", "硕士"},
		{"博士", "博士"},
		{"不限", "不限"},
	}
)

// ResolveVariant maps a value onto an option through a synonym table.
func ResolveVariant(value string, variants []Variant) (string, bool) {
	for _, v := range variants {
		if strings.Contains(value, v.Keyword) {
			return v.Option, true
		}
	}
	return "", false
}
