package render

// 报表正文与表头的固定颜色
const (
	TextColor      = "#1e293b" // slate-800
	BodyTextColor  = "#334155" // slate-700
	MutedTextColor = "#64748b" // slate-500
	HeaderText     = "#ffffff"
	DayLabelFill   = "#f8fafc" // slate-50
	PageBackground = "#ffffff"
)

// ReportFontFamily 周报正文字体
const ReportFontFamily = `"SimSun", "Songti SC", serif`

// RegionStyle 表格某一区域的背景和边框色
type RegionStyle struct {
	Background string `json:"background"`
	Border     string `json:"border"`
	Text       string `json:"text"`
}

// Styles 主题作用到各个表格区域后的配色
type Styles struct {
	Theme     Theme       `json:"theme"`
	Header    RegionStyle `json:"header"`    // 顶部标题栏
	SubHeader RegionStyle `json:"subHeader"` // 各分区标题
	Highlight RegionStyle `json:"highlight"` // 列标题、表头信息、总结栏
	Body      RegionStyle `json:"body"`      // 普通数据单元格
	DayLabel  RegionStyle `json:"dayLabel"`  // 日期列
}

// ApplyTheme 由主题计算各区域配色，不涉及周报数据
func ApplyTheme(t Theme) Styles {
	return Styles{
		Theme:     t,
		Header:    RegionStyle{Background: t.Primary, Border: t.Border, Text: HeaderText},
		SubHeader: RegionStyle{Background: t.Secondary, Border: t.Border, Text: TextColor},
		Highlight: RegionStyle{Background: t.Highlight, Border: t.Border, Text: TextColor},
		Body:      RegionStyle{Background: PageBackground, Border: t.Border, Text: BodyTextColor},
		DayLabel:  RegionStyle{Background: DayLabelFill, Border: t.Border, Text: TextColor},
	}
}
