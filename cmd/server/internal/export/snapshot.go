package export

import (
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
)

// Snapshot 复制布局树，并把所有可编辑区域替换为静态文本
// 文本取自 data/meta 的当前值而不是布局时保存的值，字体、字号、字重、对齐、颜色保持不变，统一开启自动换行
func Snapshot(doc *render.Document, data *models.StructuredReportData, meta models.ReportMeta) *render.Document {
	out := doc.Clone()
	if out == nil {
		return nil
	}

	for i := range out.Rows {
		cells := out.Rows[i].Cells
		for j := range cells {
			c := &cells[j]
			if c.Field == nil {
				continue
			}
			style := c.Field.Style
			style.Wrap = true
			c.Spans = []render.Span{{
				Text:  render.ResolveField(c.Field.Ref, data, meta),
				Style: style,
			}}
			c.Field = nil
		}
	}
	return out
}
