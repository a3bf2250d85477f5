/*
Package rle implements the compressed bitmap format used for full screen
artwork, a run length encoding of 1-bit images compact enough to keep in
firmware and cheap enough to decode a bit at a time.

A stream begins with a 17 bit header: the image width minus one in 8 bits,
the image height minus one in 8 bits, then a single bit holding the color
of the first span. The rest of the stream is a sequence of spans, each one
the length of a run of same colored pixels. Span colors simply alternate
and are never stored. A span length L is encoded as the value L-1 in a
self terminating prefix code: a count of zero bits grows the value field
by two bits each, a one bit ends the prefix, and the value field follows.
The shortest runs cost two bits. All fields are packed least significant
bit first and the final byte is padded with zero bits.

Pixels are ordered the way the display stores them: each byte covers eight
vertically stacked pixels with the top row in the least significant bit,
bytes run left to right across a page of eight rows, and pages run top to
bottom. The runtime decoder depends on this order, so the height of an
encoded image must be a multiple of the page height.
*/
package rle

// MaxWidth and MaxHeight bound encoded image dimensions to what the 8 bit
// header fields can describe.
const (
	MaxWidth  = 256
	MaxHeight = 256
)

const pageHeight = 8
