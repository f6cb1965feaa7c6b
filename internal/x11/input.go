package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

const grabEventMask = uint16(xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion)

// GrabInput grabs the pointer and keyboard for the window so a drag sees
// every input event regardless of where the pointer is.
func (c *Connection) GrabInput(id platform.WindowID) error {
	win := xproto.Window(id)
	reply, err := xproto.GrabPointer(c.conn, true, win, grabEventMask,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("grabbing pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grabbing pointer: status %d", reply.Status)
	}
	kbReply, err := xproto.GrabKeyboard(c.conn, true, win, xproto.TimeCurrentTime,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil || kbReply.Status != xproto.GrabStatusSuccess {
		xproto.UngrabPointer(c.conn, xproto.TimeCurrentTime)
		if err != nil {
			return fmt.Errorf("grabbing keyboard: %w", err)
		}
		return fmt.Errorf("grabbing keyboard: status %d", kbReply.Status)
	}
	c.grabbed = win
	return nil
}

// UngrabInput releases a grab taken by GrabInput.
func (c *Connection) UngrabInput() {
	if c.grabbed == 0 {
		return
	}
	xproto.UngrabKeyboard(c.conn, xproto.TimeCurrentTime)
	xproto.UngrabPointer(c.conn, xproto.TimeCurrentTime)
	c.grabbed = 0
}

// PointerButtonDown reports whether any pointer button is held.
func (c *Connection) PointerButtonDown() bool {
	reply, err := xproto.QueryPointer(c.conn, c.root).Reply()
	if err != nil {
		return false
	}
	const buttonMask = xproto.ButtonMask1 | xproto.ButtonMask2 | xproto.ButtonMask3
	return reply.Mask&buttonMask != 0
}

// CursorPos returns the pointer position in screen coordinates.
func (c *Connection) CursorPos() (int, int) {
	reply, err := xproto.QueryPointer(c.conn, c.root).Reply()
	if err != nil {
		return 0, 0
	}
	return int(reply.RootX), int(reply.RootY)
}

// WarpPointer moves the pointer to screen coordinates.
func (c *Connection) WarpPointer(x, y int) {
	xproto.WarpPointer(c.conn, xproto.WindowNone, c.root, 0, 0, 0, 0,
		int16(x), int16(y))
}

// SetCursor changes the pointer shape. During an active grab the grab's
// cursor is changed, otherwise the root window cursor.
func (c *Connection) SetCursor(id platform.CursorID) {
	if c.grabbed != 0 {
		xproto.ChangeActivePointerGrab(c.conn, xproto.Cursor(id),
			xproto.TimeCurrentTime, grabEventMask)
		return
	}
	xproto.ChangeWindowAttributes(c.conn, c.root, xproto.CwCursor,
		[]uint32{uint32(id)})
}

// Glyph indexes into the standard cursor font.
const (
	glyphFleur             = 52
	glyphSizeNS            = 116
	glyphSizeWE            = 108
	glyphTopLeftCorner     = 134
	glyphBottomRightCorner = 14
	glyphTopRightCorner    = 136
	glyphBottomLeftCorner  = 12
)

// CreateSizeCursor builds a cursor for a resize orientation from the cursor
// font.
func (c *Connection) CreateSizeCursor(kind int) (platform.CursorID, error) {
	var glyph uint16
	switch kind {
	case platform.CursorSizeNS:
		glyph = glyphSizeNS
	case platform.CursorSizeWE:
		glyph = glyphSizeWE
	case platform.CursorSizeNWSE:
		glyph = glyphTopLeftCorner
	case platform.CursorSizeNESW:
		glyph = glyphTopRightCorner
	default:
		glyph = glyphFleur
	}
	font, err := xproto.NewFontId(c.conn)
	if err != nil {
		return 0, fmt.Errorf("allocating font id: %w", err)
	}
	const fontName = "cursor"
	if err := xproto.OpenFontChecked(c.conn, font, uint16(len(fontName)), fontName).Check(); err != nil {
		return 0, fmt.Errorf("opening cursor font: %w", err)
	}
	defer xproto.CloseFont(c.conn, font)
	cursor, err := xproto.NewCursorId(c.conn)
	if err != nil {
		return 0, fmt.Errorf("allocating cursor id: %w", err)
	}
	err = xproto.CreateGlyphCursorChecked(c.conn, cursor, font, font,
		glyph, glyph+1,
		0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, fmt.Errorf("creating glyph cursor: %w", err)
	}
	return platform.CursorID(cursor), nil
}

// FreeCursor releases a cursor created by CreateSizeCursor.
func (c *Connection) FreeCursor(id platform.CursorID) {
	xproto.FreeCursor(c.conn, xproto.Cursor(id))
}

// SetWindowInputTransparent empties or restores the window's input shape, so
// hit tests pass through it while a callback runs.
func (c *Connection) SetWindowInputTransparent(id platform.WindowID, transparent bool) {
	if !c.haveShape {
		return
	}
	win := xproto.Window(id)
	if transparent {
		shape.Rectangles(c.conn, shape.SoSet, shape.SkInput, 0, win, 0, 0, nil)
		return
	}
	screen := c.xu.Screen()
	shape.Rectangles(c.conn, shape.SoSet, shape.SkInput, 0, win, 0, 0,
		[]xproto.Rectangle{{
			Width:  screen.WidthInPixels,
			Height: screen.HeightInPixels,
		}})
}
