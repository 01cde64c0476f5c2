package export

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/PanelCut/internal/model"
)

// DefaultPreviewWidth is the PNG preview width in pixels.
const DefaultPreviewWidth = 1200

// pieceOpacity matches the translucent piece fill of the PDF drawing.
const pieceOpacity = 0.7

var (
	panelFill  = color.NRGBA{R: 222, G: 196, B: 160, A: 255}
	marginFill = color.NRGBA{R: 255, G: 210, B: 210, A: 255}
	wasteFill  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	outline    = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// ExportPNG renders one preview image per panel into dir and returns the
// written paths in panel order.
func ExportPNG(dir string, plan Plan, widthPx int) ([]string, error) {
	if err := plan.check(); err != nil {
		return nil, err
	}
	if widthPx <= 0 {
		widthPx = DefaultPreviewWidth
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create preview directory")
	}

	paths := make([]string, 0, len(plan.Layout.Panels))
	for _, panel := range plan.Layout.Panels {
		img := RenderPanel(panel, plan.Config, widthPx)
		path := filepath.Join(dir, fmt.Sprintf("panel-%02d.png", panel.Number))
		if err := imaging.Save(img, path); err != nil {
			return paths, errors.Wrapf(err, "save %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderPanel draws a panel preview widthPx pixels wide. The height follows
// the panel's aspect ratio.
func RenderPanel(panel model.Panel, cfg model.PanelConfig, widthPx int) *image.NRGBA {
	scale := float64(widthPx) / panel.FullWidth
	heightPx := max(1, int(panel.FullHeight*scale+0.5))
	px := func(v float64) int { return int(v*scale + 0.5) }

	img := imaging.New(widthPx, heightPx, panelFill)

	if m := px(panel.Margin); m > 0 {
		fillRect(img, image.Rect(0, 0, widthPx, heightPx), marginFill)
		fillRect(img, image.Rect(m, m, widthPx-m, heightPx-m), panelFill)
	}

	origin := image.Pt(px(panel.Margin), px(panel.Margin))
	toPixels := func(r model.Rect) image.Rectangle {
		return image.Rect(px(r.X), px(r.Y), px(r.Right()), px(r.Bottom())).Add(origin)
	}

	if cfg.ShowWaste {
		for _, r := range panel.Spaces {
			fillRect(img, toPixels(r), wasteFill)
		}
	}

	numbers := model.PieceNumbers(panel)
	for i, pp := range panel.Pieces {
		rect := toPixels(pp.Rect())
		if rect.Empty() {
			continue
		}
		c := colorFor(i)
		patch := imaging.New(rect.Dx(), rect.Dy(), color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255})
		img = imaging.Overlay(img, patch, rect.Min, pieceOpacity)
		strokeRect(img, rect, outline)
		drawNumber(img, rect, fmt.Sprintf("%d", numbers[i]))
	}

	strokeRect(img, img.Bounds(), outline)
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// drawNumber centres s in r when it fits.
func drawNumber(img *image.NRGBA, r image.Rectangle, s string) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Metrics().Ascent.Ceil()
	if w+4 > r.Dx() || h+4 > r.Dy() {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(r.Min.X+(r.Dx()-w)/2, r.Min.Y+(r.Dy()+h)/2),
	}
	d.DrawString(s)
}
