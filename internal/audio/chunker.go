package audio

import "encoding/binary"

// FrameChunker accumulates quantized samples and drains them into fixed-size
// little-endian wire frames. Samples that do not yet fill a whole frame stay
// pending until the next Push or a Reset.
//
// Push runs on the capture callback path, so it only appends and encodes; it
// never blocks or allocates beyond the emitted frames.
type FrameChunker struct {
	frameSamples int
	pending      []int16
}

func NewFrameChunker(frameSamples int) *FrameChunker {
	return &FrameChunker{
		frameSamples: frameSamples,
		pending:      make([]int16, 0, frameSamples*2),
	}
}

// Push appends samples to the pending buffer and returns every complete frame
// that can be drained from it, oldest first. A single Push may return multiple
// frames if the buffer had backlog; it never returns a partial frame.
func (c *FrameChunker) Push(samples []int16) [][]byte {
	c.pending = append(c.pending, samples...)

	var frames [][]byte
	for len(c.pending) >= c.frameSamples {
		frame := make([]byte, c.frameSamples*2)
		for i, s := range c.pending[:c.frameSamples] {
			binary.LittleEndian.PutUint16(frame[i*2:], uint16(s))
		}
		frames = append(frames, frame)
		c.pending = c.pending[c.frameSamples:]
	}

	if frames != nil {
		// Reclaim the drained front of the buffer.
		remainder := make([]int16, len(c.pending), c.frameSamples*2)
		copy(remainder, c.pending)
		c.pending = remainder
	}

	return frames
}

// Pending returns the number of samples waiting for the next frame.
// It is always in [0, frameSamples-1] after Push returns.
func (c *FrameChunker) Pending() int {
	return len(c.pending)
}

// Remaining returns a copy of the pending samples without draining them.
func (c *FrameChunker) Remaining() []int16 {
	out := make([]int16, len(c.pending))
	copy(out, c.pending)
	return out
}

// Reset discards all pending samples.
func (c *FrameChunker) Reset() {
	c.pending = c.pending[:0]
}
