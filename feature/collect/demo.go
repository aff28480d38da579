package collect

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Sample pools for generated postings.
var (
	demoCompanies = []string{
		"字节跳动", "腾讯", "阿里巴巴", "美团", "京东",
		"百度", "网易", "小米", "华为", "滴滴出行",
		"快手", "拼多多", "哔哩哔哩", "小红书", "蚂蚁集团",
	}
	demoPositions = []string{
		"后端开发工程师", "前端开发工程师", "算法工程师",
		"产品经理", "数据分析师", "UI设计师",
		"测试工程师", "运维工程师", "Java开发", "Python开发",
	}
	demoIndustries   = []string{"互联网", "金融", "制造", "教育", "医疗"}
	demoCompanyTypes = []string{"民营企业", "国企", "央企", "外企", "创业公司"}
	demoEducations   = []string{"本科", "硕士", "博士", "本科及以上"}
	demoCities       = [][]string{
		{"北京"}, {"上海"}, {"深圳"}, {"杭州"}, {"北京", "上海"},
		{"广州"}, {"成都"}, {"武汉"}, {"南京"}, {"西安"},
	}
)

// DemoSource generates sample postings for exercising the pipeline without a
// live site.
type DemoSource struct {
	count int
	rand  *rand.Rand
	now   func() time.Time
}

// NewDemoSource creates a demo source producing count records per fetch.
func NewDemoSource(count int) *DemoSource {
	if count <= 0 {
		count = 10
	}
	return &DemoSource{
		count: count,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

func (s *DemoSource) Name() string {
	return "demo"
}

func (s *DemoSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	records := make([]map[string]any, 0, s.count)
	for i := 0; i < s.count; i++ {
		records = append(records, s.generate())
	}
	return records, nil
}

func (s *DemoSource) generate() map[string]any {
	now := s.now()
	company := pick(s.rand, demoCompanies)

	publish := now.AddDate(0, 0, -s.rand.Intn(31))
	deadline := now.AddDate(0, 0, 7+s.rand.Intn(54))

	rec := map[string]any{
		"批次":     s.seasonBatch(now),
		"公司名称": company,
		"企业类型": pick(s.rand, demoCompanyTypes),
		"行业":     pick(s.rand, demoIndustries),
		"工作城市": demoCities[s.rand.Intn(len(demoCities))],
		"岗位":     pick(s.rand, demoPositions),
		"学历要求": pick(s.rand, demoEducations),
		"岗位更新": publish.Format("2006-01-02"),
		"截止时间": deadline.Format("2006-01-02"),
		"招聘对象": []string{"2026届"},
		"免笔试":   s.rand.Float64() < 0.3,
		"信息来源": "https://demo.example.com/jobs",
	}

	if s.rand.Float64() < 0.5 {
		rec["内推码"] = fmt.Sprintf("NT%04d", s.rand.Intn(10000))
	}

	return rec
}

// seasonBatch picks a batch label plausible for the current month.
func (s *DemoSource) seasonBatch(now time.Time) string {
	month := now.Month()
	switch {
	case month >= time.September && month <= time.November:
		return pick(s.rand, []string{"秋招提前批", "秋招", "秋招补录"})
	case month >= time.February && month <= time.May:
		return pick(s.rand, []string{"春招提前批", "春招", "春招补录"})
	default:
		return pick(s.rand, []string{"暑期实习", "寒假实习", "日常实习"})
	}
}

func pick(r *rand.Rand, options []string) string {
	return options[r.Intn(len(options))]
}
