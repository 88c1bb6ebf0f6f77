package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
)

// DefaultScale 导出栅格化倍率
const DefaultScale = 2.0

// pxPerMM 96 DPI 下每毫米像素数
const pxPerMM = 96.0 / 25.4

// ErrLiveField 布局树中仍有可编辑区域，需先调用 Snapshot
var ErrLiveField = errors.New("document contains editable fields")

// ErrMissingGlyph 导出字体不含待绘制文字的字形
var ErrMissingGlyph = errors.New("export font lacks glyph")

// systemCJKFonts 未配置字体时依次尝试的系统中文字体
var systemCJKFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
	"/usr/share/fonts/wqy-microhei/wqy-microhei.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/STHeiti Medium.ttc",
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\simhei.ttf",
}

// FindCJKFont 返回第一个存在的系统中文字体路径，找不到时返回空串
func FindCJKFont() string {
	return firstExisting(systemCJKFonts)
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Rasterizer 将静态布局树绘制为位图
type Rasterizer interface {
	Rasterize(ctx context.Context, doc *render.Document, scale float64) (image.Image, error)
}

type faceKey struct {
	bold bool
	size int // 1/10 px
}

// FontRasterizer 使用 OpenType 字体绘制布局树，背景为不透明白色
type FontRasterizer struct {
	regular *opentype.Font
	bold    *opentype.Font

	// allowMissingGlyphs 为 true 时缺字形的文字照常绘制为空白框
	allowMissingGlyphs bool

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewFontRasterizer 加载字体；路径为空时先查找系统中文字体，找不到再使用内置 Go 字体（不含中文字形）
// 只提供常规字体时粗体复用常规字体
func NewFontRasterizer(regularPath, boldPath string) (*FontRasterizer, error) {
	var (
		regular, bold *opentype.Font
		err           error
	)
	if regularPath == "" && boldPath == "" {
		regularPath = FindCJKFont()
	}

	if regularPath == "" {
		if regular, err = opentype.Parse(goregular.TTF); err != nil {
			return nil, fmt.Errorf("parse builtin regular font: %w", err)
		}
	} else if regular, err = loadFont(regularPath); err != nil {
		return nil, err
	}

	switch {
	case boldPath != "":
		if bold, err = loadFont(boldPath); err != nil {
			return nil, err
		}
	case regularPath != "":
		bold = regular
	default:
		if bold, err = opentype.Parse(gobold.TTF); err != nil {
			return nil, fmt.Errorf("parse builtin bold font: %w", err)
		}
	}

	return &FontRasterizer{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

// loadFont 支持单字体文件和 .ttc 字体集合（取第一个）
func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	if f, err := opentype.Parse(data); err == nil {
		return f, nil
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	f, err := coll.Font(0)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

func (r *FontRasterizer) face(bold bool, sizePx float64) (font.Face, error) {
	key := faceKey{bold: bold, size: int(math.Round(sizePx * 10))}

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f, nil
	}

	src := r.regular
	if bold {
		src = r.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(key.size) / 10,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

// Covers 常规字体是否包含 s 中所有可见字符的字形
func (r *FontRasterizer) Covers(s string) bool {
	face, err := r.face(false, 16)
	if err != nil {
		return false
	}
	_, ok := missingGlyph(face, s)
	return !ok
}

// missingGlyph 返回第一个缺少字形的可见字符
func missingGlyph(face font.Face, s string) (rune, bool) {
	for _, rn := range s {
		if unicode.IsSpace(rn) || unicode.IsControl(rn) {
			continue
		}
		if _, ok := face.GlyphAdvance(rn); !ok {
			return rn, true
		}
	}
	return 0, false
}

// Close 释放缓存的字体
func (r *FontRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, f := range r.faces {
		f.Close()
		delete(r.faces, k)
	}
	return nil
}

// textBlock 一个 Span 折行后的结果
type textBlock struct {
	lines []string
	style render.TextStyle
	face  font.Face
	lineH float64
}

type laidCell struct {
	cell   render.Cell
	x, w   float64
	blocks []textBlock
}

type laidRow struct {
	cells []laidCell
	h     float64
}

// Rasterize 按 scale 倍率绘制布局树，行高取单元格内容高度的最大值，文本不会被裁切
func (r *FontRasterizer) Rasterize(ctx context.Context, doc *render.Document, scale float64) (image.Image, error) {
	if doc == nil || doc.WidthMM <= 0 {
		return nil, errors.New("empty document")
	}
	if scale <= 0 {
		scale = 1
	}
	unit := pxPerMM * scale
	margin := doc.MarginMM * unit

	rows := make([]laidRow, 0, len(doc.Rows))
	totalH := 2 * margin
	for _, row := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lr := laidRow{h: row.MinHeightMM * unit}
		x := margin
		for _, c := range row.Cells {
			if c.Editable() {
				return nil, ErrLiveField
			}
			lc := laidCell{cell: c, x: x, w: c.WidthMM * unit}
			pad := c.PaddingMM * unit
			inner := lc.w - 2*pad

			contentH, firstLineH := 0.0, 0.0
			for _, sp := range c.Spans {
				b, err := r.layoutSpan(sp, inner, scale)
				if err != nil {
					return nil, err
				}
				if firstLineH == 0 {
					firstLineH = b.lineH
				}
				contentH += float64(len(b.lines)) * b.lineH
				lc.blocks = append(lc.blocks, b)
			}
			if c.MinLines > 0 && firstLineH > 0 {
				contentH = math.Max(contentH, float64(c.MinLines)*firstLineH)
			}
			lr.h = math.Max(lr.h, contentH+2*pad)
			lr.cells = append(lr.cells, lc)
			x += lc.w
		}
		rows = append(rows, lr)
		totalH += lr.h
	}

	bg := color.Color(color.White)
	if doc.Background != "" {
		if c, err := parseColor(doc.Background); err == nil {
			bg = c
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(doc.WidthMM*unit)), int(math.Ceil(totalH))))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	stroke := math.Max(1, math.Round(scale))
	y := margin
	for _, lr := range rows {
		for _, lc := range lr.cells {
			rect := image.Rect(int(lc.x), int(y), int(math.Ceil(lc.x+lc.w)), int(math.Ceil(y+lr.h)))
			if err := paintCell(img, rect, lc, stroke, scale*pxPerMM); err != nil {
				return nil, err
			}
		}
		y += lr.h
	}
	return img, nil
}

func (r *FontRasterizer) layoutSpan(sp render.Span, maxW, scale float64) (textBlock, error) {
	size := sp.Style.SizePt
	if size <= 0 {
		size = 10.5
	}
	sizePx := size * 96 / 72 * scale
	face, err := r.face(sp.Style.Bold, sizePx)
	if err != nil {
		return textBlock{}, err
	}
	if !r.allowMissingGlyphs {
		if rn, ok := missingGlyph(face, sp.Text); ok {
			return textBlock{}, fmt.Errorf("%w %q", ErrMissingGlyph, rn)
		}
	}

	lh := sp.Style.LineHeight
	if lh <= 0 {
		lh = 1.4
	}

	var lines []string
	if sp.Style.Wrap {
		lines = wrapText(face, sp.Text, maxW)
	} else if sp.Text != "" {
		lines = strings.Split(sp.Text, "\n")
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return textBlock{lines: lines, style: sp.Style, face: face, lineH: sizePx * lh}, nil
}

func paintCell(img *image.RGBA, rect image.Rectangle, lc laidCell, stroke, unit float64) error {
	if lc.cell.Background != "" {
		fill, err := parseColor(lc.cell.Background)
		if err != nil {
			return err
		}
		draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)
	}

	if lc.cell.Border != "" {
		bc, err := parseColor(lc.cell.Border)
		if err != nil {
			return err
		}
		s := int(stroke)
		u := image.NewUniform(bc)
		for _, edge := range []image.Rectangle{
			image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+s),
			image.Rect(rect.Min.X, rect.Max.Y-s, rect.Max.X, rect.Max.Y),
			image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+s, rect.Max.Y),
			image.Rect(rect.Max.X-s, rect.Min.Y, rect.Max.X, rect.Max.Y),
		} {
			draw.Draw(img, edge.Intersect(img.Bounds()), u, image.Point{}, draw.Src)
		}
	}

	pad := lc.cell.PaddingMM * unit
	innerX := float64(rect.Min.X) + pad
	innerW := float64(rect.Dx()) - 2*pad
	y := float64(rect.Min.Y) + pad

	for _, b := range lc.blocks {
		tc := color.Color(color.Black)
		if b.style.Color != "" {
			c, err := parseColor(b.style.Color)
			if err != nil {
				return err
			}
			tc = c
		}
		m := b.face.Metrics()
		ascent := float64(m.Ascent.Ceil())
		glyphH := ascent + float64(m.Descent.Ceil())

		d := &font.Drawer{Dst: img, Src: image.NewUniform(tc), Face: b.face}
		for _, line := range b.lines {
			lineW := float64(font.MeasureString(b.face, line).Ceil())
			x := innerX
			switch b.style.Align {
			case render.AlignCenter:
				x += (innerW - lineW) / 2
			case render.AlignRight:
				x += innerW - lineW
			}
			baseline := y + (b.lineH-glyphH)/2 + ascent
			d.Dot = fixed.P(int(math.Round(x)), int(math.Round(baseline)))
			d.DrawString(line)
			y += b.lineH
		}
	}
	return nil
}

func parseColor(hex string) (color.Color, error) {
	r, g, b, err := render.ParseHex(hex)
	if err != nil {
		return nil, err
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// isWide 东亚宽字符可在任意字符间断行
func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// tokenize 按断行机会切分：空白和宽字符各自成段，连续的窄字符为一个单词
func tokenize(s string) []string {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
			tokens = append(tokens, string(r))
		case isWide(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// wrapText 贪心折行，保留显式换行；超宽的单词按字符拆开
func wrapText(face font.Face, text string, maxW float64) []string {
	if text == "" {
		return nil
	}
	limit := fixed.Int26_6(maxW * 64)

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var (
			line  strings.Builder
			lineW fixed.Int26_6
		)
		push := func() {
			lines = append(lines, strings.TrimRight(line.String(), " \t"))
			line.Reset()
			lineW = 0
		}

		for _, tok := range tokenize(para) {
			isSpace := strings.TrimSpace(tok) == ""
			if isSpace && line.Len() == 0 {
				continue
			}
			w := font.MeasureString(face, tok)
			if lineW+w <= limit {
				line.WriteString(tok)
				lineW += w
				continue
			}
			if line.Len() > 0 {
				push()
			}
			if isSpace {
				continue
			}
			if w <= limit {
				line.WriteString(tok)
				lineW = w
				continue
			}
			for _, r := range tok {
				rw := font.MeasureString(face, string(r))
				if lineW+rw > limit && line.Len() > 0 {
					push()
				}
				line.WriteRune(r)
				lineW += rw
			}
		}
		push()
	}
	return lines
}
