package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/report"
)

func sampleInput() Input {
	return Input{
		Data: &models.StructuredReportData{
			WeeklySummary:        []string{"完成登录模块", "修复支付回调"},
			NextWeekAttention:    []string{"关注上线窗口"},
			DailyLogs:            []models.DailyLog{{Day: "星期一", Date: "10.13", Content: "1. 登录模块联调\n2. 代码评审"}},
			ProblemsAndSolutions: []models.ProblemSolution{{Problem: "测试环境不稳定", Solution: "申请独立环境", Resolved: "推进中"}},
			NextWeekPlan:         []models.PlanItem{{Day: "星期一", Content: "灰度发布"}},
			FinalSummary:         "工作饱和，按时达成目标",
		},
		Meta:  models.ReportMeta{Name: "Zhang San", Role: "Engineer", Supervisor: "Li Si", DateRange: "2025/10/13 - 2025/10/17"},
		Theme: render.DefaultTheme(),
	}
}

func TestSnapshot_UsesCurrentValues(t *testing.T) {
	in := sampleInput()
	doc, err := render.Layout(render.BuildSheet(in.Data, in.Meta), render.ApplyTheme(in.Theme))
	require.NoError(t, err)

	// 布局之后继续编辑
	edited, err := report.UpdateField(in.Data, report.SectionFinalSummary, 0, "", "已编辑的总结")
	require.NoError(t, err)
	meta := in.Meta
	meta.Name = "王五"

	snap := Snapshot(doc, edited, meta)
	assert.Equal(t, 0, snap.EditableCount())
	assert.Greater(t, doc.EditableCount(), 0, "source layout must be left intact")

	texts := map[string]render.Span{}
	for i, r := range snap.Rows {
		for j, c := range r.Cells {
			orig := doc.Rows[i].Cells[j]
			if orig.Field == nil {
				continue
			}
			require.Len(t, c.Spans, 1)
			sp := c.Spans[0]
			texts[sp.Text] = sp

			assert.Equal(t, orig.Field.Style.Family, sp.Style.Family)
			assert.Equal(t, orig.Field.Style.SizePt, sp.Style.SizePt)
			assert.Equal(t, orig.Field.Style.Bold, sp.Style.Bold)
			assert.Equal(t, orig.Field.Style.Align, sp.Style.Align)
			assert.Equal(t, orig.Field.Style.Color, sp.Style.Color)
			assert.True(t, sp.Style.Wrap)
			assert.Equal(t, orig.MinLines, c.MinLines)
		}
	}

	assert.Contains(t, texts, "已编辑的总结")
	assert.Contains(t, texts, "王五")
	assert.NotContains(t, texts, "工作饱和，按时达成目标")
	assert.Contains(t, texts, "推进中")
}

func TestSnapshot_Nil(t *testing.T) {
	assert.Nil(t, Snapshot(nil, nil, models.ReportMeta{}))
}

// newRasterizer 几何相关测试不依赖机器上是否装有中文字体
func newRasterizer(t *testing.T) *FontRasterizer {
	t.Helper()
	r, err := NewFontRasterizer("", "")
	require.NoError(t, err)
	r.allowMissingGlyphs = true
	t.Cleanup(func() { r.Close() })
	return r
}

// builtinRasterizer 只含内置 Go 字体（无中文字形）的严格模式栅格化器
func builtinRasterizer(t *testing.T) *FontRasterizer {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	r := &FontRasterizer{regular: f, bold: f, faces: make(map[faceKey]font.Face)}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestFontRasterizer_MissingGlyph(t *testing.T) {
	r := builtinRasterizer(t)
	mk := func(text string) *render.Document {
		return &render.Document{WidthMM: 50, Rows: []render.Row{{Cells: []render.Cell{{
			WidthMM: 50, Spans: []render.Span{{Text: text, Style: render.TextStyle{SizePt: 9}}},
		}}}}}
	}

	_, err := r.Rasterize(context.Background(), mk("Weekly 工作周报"), 1)
	assert.ErrorIs(t, err, ErrMissingGlyph)
	assert.Contains(t, err.Error(), "工")

	_, err = r.Rasterize(context.Background(), mk("Weekly report\n2025"), 1)
	assert.NoError(t, err)

	assert.True(t, r.Covers("ABC 123"))
	assert.False(t, r.Covers("星期一"))
}

func TestExporter_MissingGlyphIsRasterFailure(t *testing.T) {
	work := t.TempDir()
	e := NewExporter(builtinRasterizer(t), work, nil)

	_, err := e.Export(context.Background(), sampleInput())
	require.Error(t, err)
	assert.Equal(t, apperrors.RASTER_FAILED, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, ErrMissingGlyph)
	assert.Contains(t, err.Error(), "EXPORT_FONT_PATH")
	assertEmptyDir(t, work)
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "cjk.ttc")
	require.NoError(t, os.WriteFile(fontPath, []byte("x"), 0644))

	assert.Equal(t, fontPath, firstExisting([]string{filepath.Join(dir, "missing.ttf"), dir, fontPath}))
	assert.Equal(t, "", firstExisting([]string{filepath.Join(dir, "missing.ttf")}))
}

func TestFontRasterizer_WhiteBackgroundAndFixedWidth(t *testing.T) {
	in := sampleInput()
	doc, err := render.Layout(render.BuildSheet(in.Data, in.Meta), render.ApplyTheme(in.Theme))
	require.NoError(t, err)

	img, err := newRasterizer(t).Rasterize(context.Background(), Snapshot(doc, in.Data, in.Meta), DefaultScale)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 1588, b.Dx(), "210mm at 96dpi x2")
	assert.Greater(t, b.Dy(), b.Dx(), "report is taller than wide")

	r, g, bl, a := img.At(1, 1).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, bl, a})

	// 标题栏使用主题主色
	margin := render.PageMarginMM * pxPerMM * DefaultScale
	mid := int(margin) + 4
	want := color.RGBA{R: 0x9b, G: 0xbb, B: 0x59, A: 0xff}
	assert.Equal(t, want, color.RGBAModel.Convert(img.At(mid, mid)))
}

func TestFontRasterizer_RejectsEditableFields(t *testing.T) {
	in := sampleInput()
	doc, err := render.Layout(render.BuildSheet(in.Data, in.Meta), render.ApplyTheme(in.Theme))
	require.NoError(t, err)

	_, err = newRasterizer(t).Rasterize(context.Background(), doc, DefaultScale)
	assert.ErrorIs(t, err, ErrLiveField)
}

func TestFontRasterizer_ContextCancelled(t *testing.T) {
	in := sampleInput()
	doc, err := render.Layout(render.BuildSheet(in.Data, in.Meta), render.ApplyTheme(in.Theme))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newRasterizer(t).Rasterize(ctx, Snapshot(doc, in.Data, in.Meta), DefaultScale)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFontRasterizer_TallerRowsForLongText(t *testing.T) {
	r := newRasterizer(t)
	style := render.TextStyle{SizePt: 9, LineHeight: 1.4, Wrap: true}
	mk := func(text string) *render.Document {
		return &render.Document{WidthMM: 50, Rows: []render.Row{{Cells: []render.Cell{{
			WidthMM: 50, PaddingMM: 1, Spans: []render.Span{{Text: text, Style: style}},
		}}}}}
	}

	short, err := r.Rasterize(context.Background(), mk("short"), 1)
	require.NoError(t, err)
	long, err := r.Rasterize(context.Background(), mk(strings.Repeat("wrapping text ", 20)), 1)
	require.NoError(t, err)

	assert.Equal(t, short.Bounds().Dx(), long.Bounds().Dx())
	assert.Greater(t, long.Bounds().Dy(), short.Bounds().Dy()*3)
}

func testFace(t *testing.T) font.Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72})
	require.NoError(t, err)
	t.Cleanup(func() { face.Close() })
	return face
}

func TestWrapText(t *testing.T) {
	face := testFace(t)
	w := font.MeasureString(face, "hello") + font.MeasureString(face, " ") + font.MeasureString(face, "world")
	maxW := float64(w)/64 + 0.5

	lines := wrapText(face, "hello world hello world", maxW)
	assert.Equal(t, []string{"hello world", "hello world"}, lines)

	for _, l := range wrapText(face, strings.Repeat("周报", 20), maxW) {
		assert.LessOrEqual(t, float64(font.MeasureString(face, l).Ceil()), maxW+1)
	}

	assert.Equal(t, []string{"a", "", "b"}, wrapText(face, "a\n\nb", maxW))
	assert.Nil(t, wrapText(face, "", maxW))

	// 超宽单词按字符拆开
	long := wrapText(face, strings.Repeat("x", 200), maxW)
	assert.Greater(t, len(long), 1)
	assert.Equal(t, strings.Repeat("x", 200), strings.Join(long, ""))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"go", " ", "周", "报", "v2"}, tokenize("go 周报v2"))
}

func TestEncodePDF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 800))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	var raster bytes.Buffer
	require.NoError(t, png.Encode(&raster, img))

	var out bytes.Buffer
	require.NoError(t, EncodePDF(&out, &raster, img.Bounds().Size(), render.PageWidthMM))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.InDelta(t, 420.0, PageHeightMM(img.Bounds().Size(), 210), 0.0001)

	assert.Error(t, EncodePDF(&out, &raster, image.Point{}, 210))
}

type failingRasterizer struct{ err error }

func (f failingRasterizer) Rasterize(context.Context, *render.Document, float64) (image.Image, error) {
	return nil, f.err
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace must be cleaned up")
}

func TestExporter_Export(t *testing.T) {
	work := t.TempDir()
	e := NewExporter(newRasterizer(t), work, nil)

	data, err := e.Export(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assertEmptyDir(t, work)
}

func TestExporter_RasterFailureCleansUp(t *testing.T) {
	work := t.TempDir()
	boom := errors.New("canvas exploded")
	e := NewExporter(failingRasterizer{err: boom}, work, nil)

	_, err := e.Export(context.Background(), sampleInput())
	require.Error(t, err)
	assert.Equal(t, apperrors.RASTER_FAILED, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, boom)
	assertEmptyDir(t, work)
}

func TestExporter_LayoutFailure(t *testing.T) {
	work := t.TempDir()
	e := NewExporter(newRasterizer(t), work, nil)

	in := sampleInput()
	in.Theme = render.Theme{Name: "broken", Primary: "nope"}
	_, err := e.Export(context.Background(), in)
	assert.Equal(t, apperrors.LAYOUT_FAILED, apperrors.CodeOf(err))
	assertEmptyDir(t, work)
}

func TestExporter_ExportFile(t *testing.T) {
	work := t.TempDir()
	outDir := t.TempDir()
	target := filepath.Join(outDir, DefaultFileName)

	e := NewExporter(newRasterizer(t), work, nil)
	n, err := e.ExportFile(context.Background(), sampleInput(), target)
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, int64(n), info.Size())

	// 失败时不写文件
	failed := filepath.Join(outDir, "failed.pdf")
	e = NewExporter(failingRasterizer{err: errors.New("x")}, work, nil)
	_, err = e.ExportFile(context.Background(), sampleInput(), failed)
	require.Error(t, err)
	_, statErr := os.Stat(failed)
	assert.True(t, os.IsNotExist(statErr))
	assertEmptyDir(t, work)
}
