/*
Package bitmap implements the packed bitmap resource format consumed by
the sprite drawing functions.

A resource is a flat byte sequence: the pixel width in one byte, the
pixel height in one byte, then one or more frames of image data. Each
frame stores its pixels a page at a time: one byte covers eight
vertically stacked pixels with the top row in the least significant bit,
bytes run left to right across a page, and pages run top to bottom,
giving width*(height/8) bytes per frame. A frame in interleaved mask
layout is twice that, with every image byte followed immediately by its
mask byte.
*/
package bitmap

import (
	"errors"
	"image/color"
)

// PageHeight is the number of vertically stacked pixels per packed byte.
const PageHeight = 8

const (
	headerSize = 2
	maxDim     = 255
)

// Palette is the color model of this pixel format: index 0 dark, index 1
// lit.
var Palette = color.Palette{color.Black, color.White}

var (
	errDimensions = errors.New("bitmap: invalid dimensions")
	errHeight     = errors.New("bitmap: height is not a multiple of eight")
	errSheet      = errors.New("bitmap: sheet height is not a multiple of the frame height")
	errMismatch   = errors.New("bitmap: image and mask dimensions differ")
	errAbsent     = errors.New("bitmap: nil resource")
)

// A Bitmap is a read only packed bitmap resource. A nil Bitmap is treated
// as absent by the drawing functions.
type Bitmap struct {
	data []byte
}

// Raw adopts data as a resource without copying or validating it. It is
// meant for firmware style byte arrays whose layout is already known
// good. Data too short to hold a header yields nil.
func Raw(data []byte) *Bitmap {
	if len(data) < headerSize {
		return nil
	}
	return &Bitmap{data: data}
}

// Width returns the pixel width from the resource header.
func (b *Bitmap) Width() int { return int(b.data[0]) }

// Height returns the pixel height from the resource header.
func (b *Bitmap) Height() int { return int(b.data[1]) }

// Pages returns the number of eight pixel page rows per frame.
func (b *Bitmap) Pages() int { return (b.Height() + PageHeight - 1) / PageHeight }

// FrameSize returns the byte count of one frame in plain layout. A frame
// in interleaved mask layout is twice as long.
func (b *Bitmap) FrameSize() int { return b.Width() * b.Pages() }

// Frames returns how many whole frames the resource holds in the given
// layout.
func (b *Bitmap) Frames(interleaved bool) int {
	fs := b.FrameSize()
	if interleaved {
		fs *= 2
	}
	if fs == 0 {
		return 0
	}
	return len(b.Data()) / fs
}

// Data returns the frame data following the header.
func (b *Bitmap) Data() []byte { return b.data[headerSize:] }

// Bytes returns the complete resource including its header.
func (b *Bitmap) Bytes() []byte { return b.data }

// Frame returns the packed data of frame i in plain layout. It panics
// when i is out of range.
func (b *Bitmap) Frame(i int) []byte {
	fs := b.FrameSize()
	off := headerSize + i*fs
	return b.data[off : off+fs]
}

// Interleave combines an image resource and its mask into a resource in
// interleaved mask layout, every image byte followed by its mask byte.
// Both inputs must be plain layout with identical dimensions and frame
// counts.
func Interleave(img, mask *Bitmap) (*Bitmap, error) {
	if img == nil || mask == nil {
		return nil, errAbsent
	}
	if img.Width() != mask.Width() || img.Height() != mask.Height() || len(img.data) != len(mask.data) {
		return nil, errMismatch
	}

	id, md := img.Data(), mask.Data()
	data := make([]byte, headerSize, headerSize+2*len(id))
	copy(data, img.data[:headerSize])
	for i := range id {
		data = append(data, id[i], md[i])
	}

	return &Bitmap{data: data}, nil
}
