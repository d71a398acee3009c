package view

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/inamate/engrave/internal/glyph"
)

// DrawCommand represents a single drawing operation for a client to execute.
// The client receives a list of these and replays them on its own canvas.
type DrawCommand struct {
	Op     string `json:"op"`               // Operation: "line", "text"
	X1     int    `json:"x1"`               // Line start or text origin
	Y1     int    `json:"y1"`               //
	X2     int    `json:"x2,omitempty"`     // Line end
	Y2     int    `json:"y2,omitempty"`     //
	Text   string `json:"text,omitempty"`   // Glyph string for "text" ops
	Font   *Font  `json:"font,omitempty"`   // Font for "text" ops
	Stroke string `json:"stroke,omitempty"` // Pen colour for "line" ops
	Width  int    `json:"width,omitempty"`  // Pen width
	Style  string `json:"style,omitempty"`  // Pen style
}

// Recorder is a DeviceContext that records draw commands instead of drawing. Text is
// measured with the music glyph metrics.
type Recorder struct {
	commands []DrawCommand
	fonts    []Font
	pens     []Pen
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetFont(f Font) { r.fonts = append(r.fonts, f) }

func (r *Recorder) ResetFont() {
	if len(r.fonts) > 0 {
		r.fonts = r.fonts[:len(r.fonts)-1]
	}
}

func (r *Recorder) GetTextExtent(s string) (int, int) {
	f, ok := r.font()
	if !ok {
		return 0, 0
	}
	return glyph.Extent(s, f.Size)
}

func (r *Recorder) SetPen(c color.RGBA, width int, style PenStyle) {
	r.pens = append(r.pens, Pen{Color: c, Width: width, Style: style})
}

func (r *Recorder) ResetPen() {
	if len(r.pens) > 0 {
		r.pens = r.pens[:len(r.pens)-1]
	}
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 int) {
	cmd := DrawCommand{Op: "line", X1: x1, Y1: y1, X2: x2, Y2: y2}
	if len(r.pens) > 0 {
		p := r.pens[len(r.pens)-1]
		cmd.Stroke = hexColor(p.Color)
		cmd.Width = p.Width
		cmd.Style = p.Style.String()
	}
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) DrawText(x, y int, s string) {
	cmd := DrawCommand{Op: "text", X1: x, Y1: y, Text: s}
	if f, ok := r.font(); ok {
		cmd.Font = &f
	}
	r.commands = append(r.commands, cmd)
}

// Commands returns the recorded commands in painter's order.
func (r *Recorder) Commands() []DrawCommand { return r.commands }

// Depth reports how many fonts and pens are currently pushed.
func (r *Recorder) Depth() (fonts, pens int) { return len(r.fonts), len(r.pens) }

func (r *Recorder) font() (Font, bool) {
	if len(r.fonts) == 0 {
		return Font{}, false
	}
	return r.fonts[len(r.fonts)-1], true
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
