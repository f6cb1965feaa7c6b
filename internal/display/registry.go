package display

import (
	"fmt"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// The widget table grows in fixed chunks. Freed slots are threaded through
// indexTable as a free list headed by freeSlot; a slot holding -2 is in use,
// -1 terminates the list.
const growSize = 1024

func (d *Display) initializeWidgetTable() {
	d.indexTable = make([]int, growSize)
	d.widgetTable = make([]Widget, growSize)
	for i := 0; i < growSize-1; i++ {
		d.indexTable[i] = i + 1
	}
	d.indexTable[growSize-1] = -1
	d.freeSlot = 0
}

func (d *Display) addWidget(handle platform.WindowID, w Widget) error {
	if handle == 0 {
		return nil
	}
	if d.freeSlot == -1 {
		length := len(d.indexTable) + growSize
		indexTable := make([]int, length)
		widgetTable := make([]Widget, length)
		copy(indexTable, d.indexTable)
		copy(widgetTable, d.widgetTable)
		for i := len(d.indexTable); i < length-1; i++ {
			indexTable[i] = i + 1
		}
		indexTable[length-1] = -1
		d.freeSlot = len(d.indexTable)
		d.indexTable = indexTable
		d.widgetTable = widgetTable
	}
	// The handle carries index+1 so an untagged handle reads as zero.
	if err := d.backend.TagHandle(handle, d.freeSlot+1); err != nil {
		return fmt.Errorf("%w: tagging handle %d: %v", ErrNoHandles, handle, err)
	}
	oldSlot := d.freeSlot
	d.freeSlot = d.indexTable[oldSlot]
	d.indexTable[oldSlot] = -2
	d.widgetTable[oldSlot] = w
	return nil
}

func (d *Display) getWidget(handle platform.WindowID) Widget {
	if handle == 0 {
		return nil
	}
	if d.lastWidget != nil && d.lastHandle == handle {
		return d.lastWidget
	}
	tag, ok := d.backend.HandleTag(handle)
	if !ok {
		return nil
	}
	index := tag - 1
	if 0 <= index && index < len(d.widgetTable) && d.widgetTable[index] != nil {
		d.lastHandle = handle
		d.lastWidget = d.widgetTable[index]
		return d.lastWidget
	}
	return nil
}

func (d *Display) removeWidget(handle platform.WindowID) Widget {
	if handle == 0 {
		return nil
	}
	d.lastWidget = nil
	d.lastHandle = 0
	tag, ok := d.backend.HandleTag(handle)
	if !ok {
		return nil
	}
	index := tag - 1
	if index < 0 || index >= len(d.widgetTable) {
		return nil
	}
	w := d.widgetTable[index]
	d.widgetTable[index] = nil
	d.indexTable[index] = d.freeSlot
	d.freeSlot = index
	d.backend.ClearTag(handle)
	return w
}

// RegisterWidget associates a widget with its native handle so events on the
// handle can be routed back to it.
func (d *Display) RegisterWidget(handle platform.WindowID, w Widget) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if w == nil {
		return ErrNilArgument
	}
	return d.addWidget(handle, w)
}

// UnregisterWidget removes the association for a handle and returns the
// widget that held it, if any.
func (d *Display) UnregisterWidget(handle platform.WindowID) (Widget, error) {
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	return d.removeWidget(handle), nil
}

// FindWidget returns the widget registered for the handle, or nil.
func (d *Display) FindWidget(handle platform.WindowID) (Widget, error) {
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	return d.getWidget(handle), nil
}

// Widgets returns every registered widget in table order.
func (d *Display) Widgets() ([]Widget, error) {
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	var out []Widget
	for _, w := range d.widgetTable {
		if w != nil {
			out = append(out, w)
		}
	}
	return out, nil
}
