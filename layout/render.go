package layout

import (
	"bufio"
	"io"
	"strings"

	"github.com/mogaika/worldtiles/coords"
)

// Render draws ASCII map of overworld tiles. X marks tiles with assets,
// ~ tiles without, - grid slots with no tile.
func (l *Layout) Render(w io.Writer) error {
	if len(l.Tiles) == 0 {
		return nil
	}

	lo := l.Tiles[0].Coordinate
	hi := lo
	for _, t := range l.Tiles[1:] {
		c := t.Coordinate
		if c.X < lo.X {
			lo.X = c.X
		}
		if c.Y < lo.Y {
			lo.Y = c.Y
		}
		if c.X > hi.X {
			hi.X = c.X
		}
		if c.Y > hi.Y {
			hi.Y = c.Y
		}
	}

	bw := bufio.NewWriter(w)
	var line strings.Builder
	for y := lo.Y; y <= hi.Y; y++ {
		line.Reset()
		for x := lo.X; x <= hi.X; x++ {
			t := l.TileAt(coords.Int2{X: x, Y: y})
			switch {
			case t == nil:
				line.WriteByte('-')
			case len(t.Assets) > 0:
				line.WriteByte('X')
			default:
				line.WriteByte('~')
			}
		}
		line.WriteByte('\n')
		if _, err := bw.WriteString(line.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
