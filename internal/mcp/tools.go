package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// WidgetInfo describes one registered widget.
type WidgetInfo struct {
	Handle   uint32 `json:"handle"`
	Disposed bool   `json:"disposed"`
}

// ListWidgetsInput is the input for the list_widgets tool.
type ListWidgetsInput struct{}

// ListWidgetsOutput is the output for the list_widgets tool.
type ListWidgetsOutput struct {
	Widgets []WidgetInfo `json:"widgets"`
}

func (s *Server) handleListWidgets(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWidgetsInput) (*mcpsdk.CallToolResult, ListWidgetsOutput, error) {
	var out ListWidgetsOutput
	err := s.display.SyncExec(func() {
		widgets, err := s.display.Widgets()
		if err != nil {
			return
		}
		for _, w := range widgets {
			out.Widgets = append(out.Widgets, WidgetInfo{
				Handle:   uint32(w.Handle()),
				Disposed: w.Disposed(),
			})
		}
	})
	if err != nil {
		return nil, ListWidgetsOutput{}, fmt.Errorf("listing widgets: %w", err)
	}
	return nil, out, nil
}

// GetSystemColorsInput is the input for the get_system_colors tool.
type GetSystemColorsInput struct{}

// GetSystemColorsOutput is the output for the get_system_colors tool.
type GetSystemColorsOutput struct {
	Colors map[string]string `json:"colors"`
}

func (s *Server) handleGetSystemColors(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetSystemColorsInput) (*mcpsdk.CallToolResult, GetSystemColorsOutput, error) {
	out := GetSystemColorsOutput{Colors: make(map[string]string)}
	err := s.display.SyncExec(func() {
		colors, err := s.display.SystemColors()
		if err != nil {
			return
		}
		for name, rgb := range colors {
			out.Colors[name] = fmt.Sprintf("#%02x%02x%02x", rgb.Red, rgb.Green, rgb.Blue)
		}
	})
	if err != nil {
		return nil, GetSystemColorsOutput{}, fmt.Errorf("reading system colors: %w", err)
	}
	return nil, out, nil
}

// PostEventInput is the input for the post_event tool.
type PostEventInput struct {
	Type   string `json:"type" jsonschema:"required,Event type: key_press, key_release, button_press, button_release, or motion"`
	Keysym uint32 `json:"keysym,omitempty" jsonschema:"Keysym for key events"`
	Button byte   `json:"button,omitempty" jsonschema:"Button number for button events (default 1)"`
	X      int    `json:"x,omitempty" jsonschema:"Pointer X in screen coordinates, for motion"`
	Y      int    `json:"y,omitempty" jsonschema:"Pointer Y in screen coordinates, for motion"`
}

// PostEventOutput is the output for the post_event tool.
type PostEventOutput struct {
	Posted bool `json:"posted"`
}

var eventTypeNames = map[string]platform.EventType{
	"key_press":      platform.EventKeyPress,
	"key_release":    platform.EventKeyRelease,
	"button_press":   platform.EventButtonPress,
	"button_release": platform.EventButtonRelease,
	"motion":         platform.EventMotion,
}

func (s *Server) handlePostEvent(_ context.Context, _ *mcpsdk.CallToolRequest, args PostEventInput) (*mcpsdk.CallToolResult, PostEventOutput, error) {
	eventType, ok := eventTypeNames[args.Type]
	if !ok {
		return nil, PostEventOutput{}, fmt.Errorf("unknown event type %q", args.Type)
	}
	ev := &platform.Event{
		Type:   eventType,
		Keysym: args.Keysym,
		Button: args.Button,
		RootX:  args.X,
		RootY:  args.Y,
	}
	if ev.Button == 0 && (eventType == platform.EventButtonPress || eventType == platform.EventButtonRelease) {
		ev.Button = 1
	}
	var out PostEventOutput
	err := s.display.SyncExec(func() {
		out.Posted = s.display.Backend().PostEvent(ev)
	})
	if err != nil {
		return nil, PostEventOutput{}, fmt.Errorf("posting event: %w", err)
	}
	return nil, out, nil
}
