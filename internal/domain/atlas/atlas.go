// Package atlas describes sprite sheets: one image plus named animation
// frames located within it.
package atlas

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// Rect is a rectangle in sprite sheet pixels
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Size is a frame size in pixels
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Frame locates an animation within the sheet.
// Loc is the source rectangle of frame 0; the following frames sit to its
// right, Size.W pixels apart.
type Frame struct {
	Loc    Rect `json:"loc"`
	Size   Size `json:"size"`
	Length int  `json:"length,omitempty"`
}

// Count returns the number of frames in the animation (at least 1)
func (f Frame) Count() int {
	if f.Length > 0 {
		return f.Length
	}
	return 1
}

// SourceRect returns the sheet rectangle of frame i.
// i wraps around Count, so any index is valid.
func (f Frame) SourceRect(i int) image.Rectangle {
	n := f.Count()
	i %= n
	if i < 0 {
		i += n
	}
	x := f.Loc.X + i*f.Size.W
	return image.Rect(x, f.Loc.Y, x+f.Size.W, f.Loc.Y+f.Size.H)
}

// Metadata is the parsed atlas JSON document
type Metadata struct {
	Frames map[string]Frame `json:"frames"`
}

// ParseMetadata parses atlas JSON. A document without "frames" yields an
// empty, non-nil frame map.
func ParseMetadata(data []byte) (Metadata, error) {
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse atlas metadata: %w", err)
	}
	if md.Frames == nil {
		md.Frames = map[string]Frame{}
	}
	return md, nil
}

// Atlas is a loaded sprite sheet. Image is nil for placeholders.
type Atlas struct {
	Metadata
	Image *gg.ImageBuf
}

// New combines metadata with a decoded sheet image
func New(md Metadata, img *gg.ImageBuf) *Atlas {
	if md.Frames == nil {
		md.Frames = map[string]Frame{}
	}
	return &Atlas{Metadata: md, Image: img}
}

// Placeholder returns the stand-in used when an atlas failed to load:
// no frames and no image.
func Placeholder() *Atlas {
	return &Atlas{Metadata: Metadata{Frames: map[string]Frame{}}}
}

// Drawable reports whether the atlas has an image and at least one frame
func (a *Atlas) Drawable() bool {
	return a != nil && a.Image != nil && len(a.Frames) > 0
}

// Frame looks up a named animation
func (a *Atlas) Frame(name string) (Frame, bool) {
	if a == nil {
		return Frame{}, false
	}
	f, ok := a.Frames[name]
	return f, ok
}

// DrawFrame blits frame i of the named animation with its top-left corner at
// (x, y), using the context's current transform. It returns false and draws
// nothing when the atlas has no image or no such animation.
func (a *Atlas) DrawFrame(dc *gg.Context, name string, i int, x, y float64) bool {
	if a == nil || a.Image == nil {
		return false
	}
	f, ok := a.Frames[name]
	if !ok {
		return false
	}
	src := f.SourceRect(i)
	dc.DrawImageEx(a.Image, gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      float64(f.Size.W),
		DstHeight:     float64(f.Size.H),
		SrcRect:       &src,
		Interpolation: gg.InterpNearest,
	})
	return true
}
