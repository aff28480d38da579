package record

import "strings"

// Aliases maps the raw field names seen in upstream sources onto canonical
// names. Lookups are case-insensitive on the raw side.
var Aliases = map[string]string{
	"company":  "company_name",
	"公司":     "company_name",
	"公司名称": "company_name",
	"企业":     "company_name",
	"企业名称": "company_name",
	"job":      "position",
	"职位":     "position",
	"岗位":     "position",
	"title":    "position",
	"date":     "publish_date",
	"发布日期": "publish_date",
	"更新日期": "publish_date",
	"发布时间": "publish_date",
	"url":      "source",
	"链接":     "source",
	"申请链接": "source",
	"location": "city",
	"地点":     "city",
	"工作地点": "city",
	"工作城市": "city",
	"学历":     "education",
	"学位":     "education",
	"学历要求": "education",
	"截止日期": "deadline",
	"申请截止": "deadline",
	"截止时间": "deadline",
	"批次":     "batch",
	"企业类型": "company_type",
	"行业":     "industry",
	"招聘对象": "target",
	"免笔试":   "no_written_test",
	"信息来源": "source",
	"内推码":   "referral_code",
	"岗位更新": "publish_date",
}

// FieldMapping maps canonical field names onto the remote table's column
// names.
var FieldMapping = map[string]string{
	"publish_date":    "岗位更新",
	"batch":           "批次",
	"company_name":    "公司名称",
	"company_type":    "企业类型",
	"industry":        "行业",
	"city":            "工作城市",
	"position":        "岗位",
	"education":       "学历要求",
	"deadline":        "截止时间",
	"target":          "招聘对象",
	"no_written_test": "免笔试",
	"source":          "信息来源",
	"referral_code":   "内推码",
}

// CanonicalKey resolves a raw field name to its canonical form. Names without
// an alias pass through unchanged.
func CanonicalKey(raw string) string {
	if canonical, ok := Aliases[raw]; ok {
		return canonical
	}
	if canonical, ok := Aliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return raw
}

// CanonicalizeKeys rewrites every key of a raw field map to its canonical
// form. A field already present under its canonical name takes precedence
// over values arriving through an alias.
func CanonicalizeKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if CanonicalKey(key) == key {
			out[key] = value
		}
	}
	for key, value := range raw {
		canonical := CanonicalKey(key)
		if _, seen := out[canonical]; !seen {
			out[canonical] = value
		}
	}
	return out
}

// ProjectDedupKey rebuilds a posting's dedup key from a remote row's field
// map, so that remote rows can be matched against locally computed keys.
func ProjectDedupKey(fields map[string]any) string {
	return strings.Join([]string{
		keyPart(fields[FieldMapping["company_name"]]),
		keyPart(fields[FieldMapping["position"]]),
		keyPart(fields[FieldMapping["publish_date"]]),
	}, "|")
}
