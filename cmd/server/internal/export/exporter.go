package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/utils"
	"github.com/houzhh15/weekly-report/pkg/logger"
)

// DefaultFileName 导出文件名
const DefaultFileName = "work_report.pdf"

// Input 一次导出所需的数据
type Input struct {
	Data  *models.StructuredReportData
	Meta  models.ReportMeta
	Theme render.Theme
}

// Exporter 周报 PDF 导出器
// 流程：固定宽度布局 → 可编辑区域快照为静态文本 → 2 倍栅格化 → 单页 PDF
type Exporter struct {
	rasterizer Rasterizer
	workDir    string
	scale      float64
	log        *slog.Logger
}

// NewExporter 创建导出器，workDir 用于存放中间文件，每次导出结束都会清理
func NewExporter(r Rasterizer, workDir string, log *slog.Logger) *Exporter {
	return &Exporter{
		rasterizer: r,
		workDir:    workDir,
		scale:      DefaultScale,
		log:        logger.OrDefault(log).With("component", "exporter"),
	}
}

// Export 生成 PDF 字节；任一步骤失败都返回带错误码的 ReportError，且不会留下中间文件
func (e *Exporter) Export(ctx context.Context, in Input) ([]byte, error) {
	if err := os.MkdirAll(e.workDir, 0755); err != nil {
		return nil, apperrors.NewExportError(fmt.Errorf("create work dir: %w", err))
	}
	ws, err := os.MkdirTemp(e.workDir, "export-"+uuid.NewString()+"-")
	if err != nil {
		return nil, apperrors.NewExportError(fmt.Errorf("create workspace: %w", err))
	}
	defer func() {
		if rmErr := os.RemoveAll(ws); rmErr != nil {
			e.log.Warn("failed to clean export workspace", "path", ws, "error", rmErr)
		}
	}()

	doc, err := render.Layout(render.BuildSheet(in.Data, in.Meta), render.ApplyTheme(in.Theme))
	if err != nil {
		return nil, apperrors.NewLayoutError(err)
	}
	static := Snapshot(doc, in.Data, in.Meta)

	img, err := e.rasterizer.Rasterize(ctx, static, e.scale)
	if errors.Is(err, ErrMissingGlyph) {
		return nil, apperrors.New(apperrors.RASTER_FAILED, "导出字体缺少中文字形，请设置 EXPORT_FONT_PATH", err)
	}
	if err != nil {
		return nil, apperrors.NewRasterError(err)
	}

	rasterPath := filepath.Join(ws, "raster.png")
	if err := writePNG(rasterPath, img); err != nil {
		return nil, apperrors.NewEncodeError(err)
	}

	f, err := os.Open(rasterPath)
	if err != nil {
		return nil, apperrors.NewEncodeError(err)
	}
	defer f.Close()

	var buf bytes.Buffer
	size := img.Bounds().Size()
	if err := EncodePDF(&buf, f, size, render.PageWidthMM); err != nil {
		return nil, apperrors.NewEncodeError(err)
	}

	e.log.Debug("report exported",
		"width_px", size.X,
		"height_px", size.Y,
		"page_height_mm", PageHeightMM(size, render.PageWidthMM),
		"bytes", buf.Len(),
	)
	return buf.Bytes(), nil
}

// ExportFile 导出到 path，先写临时文件再改名，失败时不会留下半截文件
func (e *Exporter) ExportFile(ctx context.Context, in Input, path string) (int, error) {
	data, err := e.Export(ctx, in)
	if err != nil {
		return 0, err
	}
	err = utils.WriteAtomic(path, 0644, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return 0, apperrors.NewExportError(err)
	}
	return len(data), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
