package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"time"

	"countrypulse/internal/domain"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	imgWidth  = 640
	imgHeight = 400

	marginX   = 24
	headerY   = 36
	firstRowY = 72
	rowHeight = 56

	flagWidth  = 48
	flagHeight = 32
)

var (
	textColor   = color.RGBA{30, 30, 30, 255}
	footerColor = color.RGBA{110, 110, 110, 255}
	ruleColor   = color.RGBA{225, 225, 225, 255}
)

// SummaryRenderer draws the fixed-layout top-5 overview PNG. Flag thumbnails
// are fetched per entry and are best effort: a failed fetch or decode skips
// that entry's thumbnail while its text line still renders.
type SummaryRenderer struct {
	http *http.Client
}

func (r *SummaryRenderer) Render(ctx context.Context, s domain.Summary) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawText(canvas, marginX, headerY, textColor, "Top 5 countries by estimated GDP")

	y := firstRowY
	for i, c := range s.Top {
		textX := marginX
		if c.FlagURL != nil {
			if flag, err := r.fetchFlag(ctx, *c.FlagURL); err != nil {
				logrus.Warnf("Skipping flag thumbnail for %q: %v", c.Name, err)
			} else {
				dst := image.Rect(marginX, y, marginX+flagWidth, y+flagHeight)
				xdraw.ApproxBiLinear.Scale(canvas, dst, flag, flag.Bounds(), xdraw.Over, nil)
				textX = marginX + flagWidth + 12
			}
		}

		line := fmt.Sprintf("%d. %s - $%s", i+1, c.Name, formatAmount(c.EstimatedGDP))
		drawText(canvas, textX, y+21, textColor, line)

		ruleY := y + rowHeight - 12
		drawHLine(canvas, marginX, imgWidth-marginX, ruleY, ruleColor)
		y += rowHeight
	}

	footer := fmt.Sprintf("%d countries tracked | refreshed %s",
		s.TotalCountries, s.LastRefreshedAt.UTC().Format(time.RFC3339))
	drawText(canvas, marginX, imgHeight-20, footerColor, footer)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode summary png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *SummaryRenderer) fetchFlag(ctx context.Context, flagURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, flagURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create flag request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flag: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d fetching flag", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flag image: %w", err)
	}
	return img, nil
}

func drawText(dst *image.RGBA, x, y int, c color.Color, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawHLine(dst *image.RGBA, x0, x1, y int, c color.Color) {
	for x := x0; x < x1; x++ {
		dst.Set(x, y, c)
	}
}

func formatAmount(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func NewSummaryRenderer(httpClient *http.Client) *SummaryRenderer {
	return &SummaryRenderer{http: httpClient}
}
