package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*
var templateFS embed.FS

// Presentation 渲染周报 HTML 预览
type Presentation struct {
	tmpl *template.Template
}

// NewPresentation 解析内嵌模板
func NewPresentation() (*Presentation, error) {
	tmpl, err := template.New("base").ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Presentation{tmpl: tmpl}, nil
}

type reportView struct {
	Sheet  Sheet
	Styles Styles
}

// RenderReport 输出带主题的周报表格页面
func (p *Presentation) RenderReport(w io.Writer, sheet Sheet, styles Styles) error {
	view := reportView{Sheet: sheet, Styles: styles}
	if err := p.tmpl.ExecuteTemplate(w, "report.html", view); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
