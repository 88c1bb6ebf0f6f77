package export

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/go-pdf/fpdf"
)

const rasterImageName = "report"

// PageHeightMM 按图片宽高比计算页面高度
func PageHeightMM(size image.Point, pageWidthMM float64) float64 {
	if size.X <= 0 {
		return 0
	}
	return float64(size.Y) * pageWidthMM / float64(size.X)
}

// EncodePDF 将 PNG 位图铺满单页 PDF：页宽 pageWidthMM，页高按比例缩放
func EncodePDF(w io.Writer, raster io.Reader, size image.Point, pageWidthMM float64) error {
	if size.X <= 0 || size.Y <= 0 {
		return errors.New("empty raster")
	}
	h := PageHeightMM(size, pageWidthMM)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageWidthMM, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("工作周报", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(rasterImageName, opts, raster)
	pdf.ImageOptions(rasterImageName, 0, 0, pageWidthMM, h, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
