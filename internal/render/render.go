// Package render draws board positions as PNG images.
//
// The board is composed as an SVG document in memory, rasterized with oksvg
// and rasterx, and labelled with file and rank coordinates.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/game"
)

const (
	DefaultSize = 480
	minSize     = 64
	unit        = 100 // SVG units per square
)

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	lightHighlight  = color.RGBA{246, 246, 105, 255}
	darkHighlight   = color.RGBA{186, 202, 43, 255}
	checkSquare     = color.RGBA{224, 102, 102, 255}
	backgroundColor = color.RGBA{40, 44, 52, 255}
	coordinateColor = color.RGBA{220, 220, 220, 255}
)

// Options controls how a position is drawn.
type Options struct {
	Size        int         // pixel side of the board, without coordinates
	Flip        bool        // draw from dark's side
	Coordinates bool        // draw file and rank labels around the board
	LastMove    board.Move  // highlighted when both squares differ
	Check       board.Color // side whose king is drawn in red; NoColor for none
}

// ForGame returns options highlighting the last move and a checked king of g.
func ForGame(g *game.Game) Options {
	opts := Options{
		Size:        DefaultSize,
		Coordinates: true,
		LastMove:    g.LastMove(),
	}
	if turn := g.Turn(); g.InCheck(turn) {
		opts.Check = turn
	}
	return opts
}

func (o Options) normalized() Options {
	if o.Size < minSize {
		o.Size = DefaultSize
	}
	// keep whole pixels per square
	o.Size -= o.Size % 8
	if o.LastMove.From == o.LastMove.To {
		o.LastMove = board.NoMove
	}
	return o
}

// margin returns the coordinate border width in pixels.
func (o Options) margin() int {
	if !o.Coordinates {
		return 0
	}
	return o.Size / 20
}

// SVG returns the board as an SVG document.
func SVG(b *board.Board, opts Options) string {
	opts = opts.normalized()
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`,
		8*unit, 8*unit, opts.Size, opts.Size)

	checked := board.NoSquare
	if opts.Check != board.NoColor {
		if sq, ok := b.FindKing(opts.Check); ok {
			checked = sq
		}
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			x, y := opts.origin(row, col)
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
				x, y, unit, unit, hex(opts.squareColor(row, col, checked)))
		}
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, ok := b.Piece(row, col)
			if !ok {
				continue
			}
			x, y := opts.origin(row, col)
			writePiece(&sb, p, float64(x), float64(y), unit)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// origin returns the top-left SVG coordinate of a square.
func (o Options) origin(row, col int) (int, int) {
	if o.Flip {
		row, col = 7-row, 7-col
	}
	return col * unit, row * unit
}

func (o Options) squareColor(row, col int, checked board.Square) color.RGBA {
	sq := board.Sq(row, col)
	light := (row+col)%2 == 0
	switch {
	case sq == checked:
		return checkSquare
	case !o.LastMove.IsNone() && (sq == o.LastMove.From || sq == o.LastMove.To):
		if light {
			return lightHighlight
		}
		return darkHighlight
	case light:
		return lightSquare
	default:
		return darkSquare
	}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Image rasterizes the board.
func Image(b *board.Board, opts Options) (*image.RGBA, error) {
	opts = opts.normalized()
	margin := opts.margin()
	total := opts.Size + 2*margin

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(b, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(float64(margin), float64(margin), float64(opts.Size), float64(opts.Size))

	img := image.NewRGBA(image.Rect(0, 0, total, total))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(total, total, img, img.Bounds())
	raster := rasterx.NewDasher(total, total, scanner)
	icon.Draw(raster, 1.0)

	if margin > 0 {
		drawCoordinates(img, opts, margin)
	}
	return img, nil
}

// PNG renders the board and encodes it as PNG.
func PNG(ctx context.Context, b *board.Board, opts Options) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := Image(b, opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG renders the current position of g to w.
func WritePNG(ctx context.Context, w io.Writer, g *game.Game) error {
	data, err := PNG(ctx, g.Board(), ForGame(g))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

var (
	faceOnce  sync.Once
	labelFace font.Face
)

// coordinateFace returns the label font, falling back to the fixed bitmap
// font when the embedded TrueType font cannot be loaded.
func coordinateFace() font.Face {
	faceOnce.Do(func() {
		labelFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		labelFace = face
	})
	return labelFace
}

func drawCoordinates(img *image.RGBA, opts Options, margin int) {
	face := coordinateFace()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordinateColor),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	square := opts.Size / 8

	for i := 0; i < 8; i++ {
		file, rank := i, 7-i // screen column i, screen row i
		if opts.Flip {
			file, rank = 7-i, i
		}
		center := margin + i*square + square/2

		fileLabel := string(rune('a' + file))
		drawCentered(drawer, fileLabel, center, margin+opts.Size+(margin+ascent)/2)

		rankLabel := string(rune('1' + rank))
		drawCentered(drawer, rankLabel, margin/2, center+ascent/2)
	}
}

func drawCentered(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
