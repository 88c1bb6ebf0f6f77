package render

import (
	"fmt"
	"strconv"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/report"
)

const (
	// PageWidthMM 导出布局固定宽度（A4）
	PageWidthMM = 210.0
	// PageMarginMM 页面四周留白
	PageMarginMM = 8.0

	cellPaddingMM = 1.5
)

// MetaSection 表头信息字段使用的 FieldRef.Section
const MetaSection = "meta"

// 表头信息子字段
const (
	MetaName       = "name"
	MetaRole       = "role"
	MetaSupervisor = "supervisor"
	MetaDateRange  = "dateRange"
)

// Align 文本对齐方式
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextStyle 文本排版属性
type TextStyle struct {
	Family     string  `json:"family"`
	SizePt     float64 `json:"sizePt"`
	Bold       bool    `json:"bold"`
	Align      Align   `json:"align"`
	Color      string  `json:"color"`
	Wrap       bool    `json:"wrap"`
	LineHeight float64 `json:"lineHeight"` // 行高倍数
}

// Span 静态文本段，同一单元格内的多个 Span 各占一段
type Span struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
}

// FieldRef 可编辑单元格绑定的数据位置
type FieldRef struct {
	Section  string `json:"section"`
	Index    int    `json:"index"`
	SubField string `json:"subField,omitempty"`
}

// Field 可编辑输入区域，Value 为布局时的取值
type Field struct {
	Ref   FieldRef  `json:"ref"`
	Value string    `json:"value"`
	Style TextStyle `json:"style"`
}

// Cell 表格单元格，Field 非空表示可编辑区域
// MinLines 为内容区最少保留的行数，空单元格也按此高度绘制
type Cell struct {
	WidthMM    float64 `json:"widthMm"`
	Background string  `json:"background"`
	Border     string  `json:"border"`
	PaddingMM  float64 `json:"paddingMm"`
	MinLines   int     `json:"minLines"`
	Spans      []Span  `json:"spans,omitempty"`
	Field      *Field  `json:"field,omitempty"`
}

// Editable 是否为可编辑区域
func (c Cell) Editable() bool {
	return c.Field != nil
}

// Row 一行单元格，行高取各单元格内容高度的最大值
type Row struct {
	Cells       []Cell  `json:"cells"`
	MinHeightMM float64 `json:"minHeightMm"`
}

// Document 固定宽度的离屏布局树
type Document struct {
	WidthMM    float64 `json:"widthMm"`
	MarginMM   float64 `json:"marginMm"`
	Background string  `json:"background"`
	Rows       []Row   `json:"rows"`
}

// Clone 深拷贝布局树
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Rows = make([]Row, len(d.Rows))
	for i, r := range d.Rows {
		cells := make([]Cell, len(r.Cells))
		for j, c := range r.Cells {
			c.Spans = append([]Span(nil), c.Spans...)
			if c.Field != nil {
				f := *c.Field
				c.Field = &f
			}
			cells[j] = c
		}
		out.Rows[i] = Row{Cells: cells, MinHeightMM: r.MinHeightMM}
	}
	return &out
}

// EditableCount 可编辑区域数量
func (d *Document) EditableCount() int {
	n := 0
	for _, r := range d.Rows {
		for _, c := range r.Cells {
			if c.Editable() {
				n++
			}
		}
	}
	return n
}

// ResolveField 从周报和表头中读取 ref 指向的当前值，不存在时返回空串
func ResolveField(ref FieldRef, data *models.StructuredReportData, meta models.ReportMeta) string {
	if ref.Section == MetaSection {
		switch ref.SubField {
		case MetaName:
			return meta.Name
		case MetaRole:
			return meta.Role
		case MetaSupervisor:
			return meta.Supervisor
		case MetaDateRange:
			return meta.DateRange
		}
		return ""
	}
	if data == nil {
		return ""
	}

	in := func(n int) bool { return ref.Index >= 0 && ref.Index < n }
	switch report.Section(ref.Section) {
	case report.SectionWeeklySummary:
		if in(len(data.WeeklySummary)) {
			return data.WeeklySummary[ref.Index]
		}
	case report.SectionNextWeekAttention:
		if in(len(data.NextWeekAttention)) {
			return data.NextWeekAttention[ref.Index]
		}
	case report.SectionDailyLogs:
		if in(len(data.DailyLogs)) {
			return data.DailyLogs[ref.Index].Content
		}
	case report.SectionProblemsAndSolutions:
		if in(len(data.ProblemsAndSolutions)) {
			p := data.ProblemsAndSolutions[ref.Index]
			switch ref.SubField {
			case report.SubFieldProblem:
				return p.Problem
			case report.SubFieldSolution:
				return p.Solution
			case report.SubFieldResolved:
				return p.Resolved
			}
		}
	case report.SectionNextWeekPlan:
		if in(len(data.NextWeekPlan)) {
			return data.NextWeekPlan[ref.Index].Content
		}
	case report.SectionFinalSummary:
		return data.FinalSummary
	}
	return ""
}

// layoutBuilder 按百分比列宽拼装行
type layoutBuilder struct {
	doc     *Document
	content float64
}

func (b *layoutBuilder) width(pct float64) float64 {
	return b.content * pct / 100
}

func (b *layoutBuilder) row(minHeight float64, cells ...Cell) {
	b.doc.Rows = append(b.doc.Rows, Row{Cells: cells, MinHeightMM: minHeight})
}

func (b *layoutBuilder) label(pct float64, region RegionStyle, text string, style TextStyle) Cell {
	style.Color = region.Text
	return Cell{
		WidthMM:    b.width(pct),
		Background: region.Background,
		Border:     region.Border,
		PaddingMM:  cellPaddingMM,
		Spans:      []Span{{Text: text, Style: style}},
	}
}

func (b *layoutBuilder) field(pct float64, region RegionStyle, ref FieldRef, value string, style TextStyle, minLines int) Cell {
	style.Color = region.Text
	style.Wrap = true
	return Cell{
		WidthMM:    b.width(pct),
		Background: region.Background,
		Border:     region.Border,
		PaddingMM:  cellPaddingMM,
		MinLines:   minLines,
		Field:      &Field{Ref: ref, Value: value, Style: style},
	}
}

func textStyle(size float64, bold bool, align Align) TextStyle {
	return TextStyle{Family: ReportFontFamily, SizePt: size, Bold: bold, Align: align, LineHeight: 1.4}
}

// Layout 将表格模型排成固定 210mm 宽的布局树
// 可编辑区域保存布局时的值，导出前需用 Snapshot 替换为当前值
func Layout(sheet Sheet, styles Styles) (*Document, error) {
	if err := styles.Theme.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	b := &layoutBuilder{
		doc: &Document{
			WidthMM:    PageWidthMM,
			MarginMM:   PageMarginMM,
			Background: PageBackground,
		},
		content: PageWidthMM - 2*PageMarginMM,
	}

	title := textStyle(15, true, AlignCenter)
	section := textStyle(10.5, true, AlignCenter)
	colHead := textStyle(10.5, true, AlignCenter)
	small := textStyle(9, true, AlignCenter)
	body := textStyle(9, false, AlignLeft)
	meta := sheet.Meta

	// 标题栏
	b.row(10, b.label(100, styles.Header, "工 作 周 报", title))
	b.row(0,
		b.label(55, styles.Header, "通用工作周报模板", textStyle(10.5, false, AlignLeft)),
		b.label(10, styles.Header, "日期:", textStyle(10.5, false, AlignRight)),
		b.field(35, styles.Header, FieldRef{Section: MetaSection, SubField: MetaDateRange}, meta.DateRange, textStyle(10.5, false, AlignRight), 1),
	)

	// 表头信息
	b.row(0,
		b.label(12, styles.Highlight, "姓名:", colHead),
		b.field(21, styles.Highlight, FieldRef{Section: MetaSection, SubField: MetaName}, meta.Name, textStyle(10.5, false, AlignCenter), 1),
		b.label(12, styles.Highlight, "职位:", colHead),
		b.field(21, styles.Highlight, FieldRef{Section: MetaSection, SubField: MetaRole}, meta.Role, textStyle(10.5, false, AlignCenter), 1),
		b.label(12, styles.Highlight, "上级:", colHead),
		b.field(22, styles.Highlight, FieldRef{Section: MetaSection, SubField: MetaSupervisor}, meta.Supervisor, textStyle(10.5, false, AlignCenter), 1),
	)

	// 本周总结 / 下周注意事项
	b.row(0,
		b.label(50, styles.SubHeader, "本 周 工 作 总 结", section),
		b.label(50, styles.SubHeader, "下 周 工 作 注 意 事 项", section),
	)
	b.row(0,
		b.label(10, styles.Highlight, "任务", colHead),
		b.label(40, styles.Highlight, "本周完成主要工作", colHead),
		b.label(10, styles.Highlight, "任务", colHead),
		b.label(40, styles.Highlight, "下周主要事项", colHead),
	)
	for _, r := range sheet.SummaryRows {
		no := strconv.Itoa(r.No)
		idx := r.No - 1
		b.row(0,
			b.label(10, styles.Body, no, colHead),
			b.field(40, styles.Body, FieldRef{Section: string(report.SectionWeeklySummary), Index: idx}, r.Summary, body, 2),
			b.label(10, styles.Body, no, colHead),
			b.field(40, styles.Body, FieldRef{Section: string(report.SectionNextWeekAttention), Index: idx}, r.Attention, body, 2),
		)
	}

	// 本周工作记录 / 问题及建议
	b.row(0,
		b.label(50, styles.SubHeader, "本 周 工 作 记 录", section),
		b.label(50, styles.SubHeader, "本周工作中存在问题及建议解决办法", section),
	)
	b.row(0,
		b.label(10, styles.Highlight, "具体时间", small),
		b.label(40, styles.Highlight, "工作内容记录", small),
		b.label(5, styles.Highlight, "编号", small),
		b.label(22.5, styles.Highlight, "存在问题", small),
		b.label(15, styles.Highlight, "建议办法", small),
		b.label(7.5, styles.Highlight, "解决?", small),
	)
	for i, r := range sheet.DayRows {
		dayCell := b.label(10, styles.DayLabel, r.Day, small)
		date := textStyle(7.5, false, AlignCenter)
		date.Color = MutedTextColor
		dayCell.Spans = append(dayCell.Spans, Span{Text: r.Date, Style: date})

		ps := string(report.SectionProblemsAndSolutions)
		b.row(0,
			dayCell,
			b.field(40, styles.Body, FieldRef{Section: string(report.SectionDailyLogs), Index: r.LogIndex}, r.Content, body, 2),
			b.label(5, styles.Body, r.ProblemNo, textStyle(9, false, AlignCenter)),
			b.field(22.5, styles.Body, FieldRef{Section: ps, Index: i, SubField: report.SubFieldProblem}, r.Problem, body, 2),
			b.field(15, styles.Body, FieldRef{Section: ps, Index: i, SubField: report.SubFieldSolution}, r.Solution, body, 2),
			b.field(7.5, styles.Body, FieldRef{Section: ps, Index: i, SubField: report.SubFieldResolved}, r.Resolved, textStyle(9, false, AlignCenter), 1),
		)
	}

	// 下周工作计划
	b.row(0, b.label(100, styles.SubHeader, "下 周 工 作 计 划", section))
	b.row(0,
		b.label(10, styles.Highlight, "具体时间", small),
		b.label(90, styles.Highlight, "工作内容记录", small),
	)
	for _, p := range sheet.PlanRows {
		b.row(0,
			b.label(10, styles.DayLabel, p.Day, small),
			b.field(90, styles.Body, FieldRef{Section: string(report.SectionNextWeekPlan), Index: p.Index}, p.Content, body, 1),
		)
	}

	// 本周工作总结
	b.row(0,
		b.label(18, styles.Highlight, "本周工作总结:", textStyle(9, true, AlignLeft)),
		b.field(82, styles.Highlight, FieldRef{Section: string(report.SectionFinalSummary)}, sheet.FinalSummary, body, 1),
	)

	return b.doc, nil
}
