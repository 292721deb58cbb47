package kite

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot asks for the current frame to be saved as a PNG once Draw has
// finished. Files land in Config.ScreenshotDir as <timestamp>_<label>.png.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

func (e *Engine) flushScreenshots(screen *ebiten.Image) {
	if len(e.screenshotQueue) == 0 {
		return
	}
	labels := e.screenshotQueue
	e.screenshotQueue = e.screenshotQueue[:0]

	dir := e.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Logger().Warn("screenshot dir unavailable", "dir", dir, "err", err)
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102-150405.000")
	for _, label := range labels {
		path := filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot not saved", "label", label, "err", err)
			continue
		}
		Logger().Info("screenshot saved", "path", path, "frame", e.frame)
	}
}

// unpremultiply turns ebiten's premultiplied pixel dump into straight alpha
// so PNG viewers show the frame as it appeared.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	src := &image.RGBA{Pix: pixels, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, dst.Rect, src, image.Point{}, draw.Src)
	return dst
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		return fmt.Errorf("screenshot: encode %s: %w", path, err)
	}
	return nil
}

func labelRune(r rune) rune {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return r
	case r == '-' || r == '.':
		return r
	}
	return '_'
}

// sanitizeLabel keeps letters, digits, '-' and '.' and maps everything else
// to '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(labelRune, label)
}
