package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// DrawRectangles paints rubber-band outlines directly on the root window
// with an XOR graphics context, so drawing the same rectangles again erases
// them. Stippled outlines use a dashed line style.
func (c *Connection) DrawRectangles(rects []platform.Rect, stippled bool) error {
	if len(rects) == 0 {
		return nil
	}
	gc, err := xproto.NewGcontextId(c.conn)
	if err != nil {
		return fmt.Errorf("allocating graphics context: %w", err)
	}
	lineStyle := uint32(xproto.LineStyleSolid)
	lineWidth := uint32(1)
	if stippled {
		lineStyle = xproto.LineStyleOnOffDash
		lineWidth = 3
	}
	// Value order follows the mask's bit order.
	mask := uint32(xproto.GcFunction | xproto.GcForeground |
		xproto.GcLineWidth | xproto.GcLineStyle | xproto.GcSubwindowMode)
	values := []uint32{
		xproto.GxXor,
		0xffffffff,
		lineWidth,
		lineStyle,
		xproto.SubwindowModeIncludeInferiors,
	}
	err = xproto.CreateGCChecked(c.conn, gc, xproto.Drawable(c.root), mask, values).Check()
	if err != nil {
		return fmt.Errorf("creating graphics context: %w", err)
	}
	defer xproto.FreeGC(c.conn, gc)

	outlines := make([]xproto.Rectangle, len(rects))
	for i, r := range rects {
		outlines[i] = xproto.Rectangle{
			X:      int16(r.X),
			Y:      int16(r.Y),
			Width:  uint16(r.Width),
			Height: uint16(r.Height),
		}
	}
	return xproto.PolyRectangleChecked(c.conn, xproto.Drawable(c.root), gc, outlines).Check()
}
