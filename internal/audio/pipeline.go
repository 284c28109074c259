package audio

// Processor turns raw capture batches into wire frames: resample to the wire
// rate, quantize to 16-bit PCM, then chunk into fixed frames. All state lives
// in the chunker. A Processor is not safe for concurrent use; it belongs to
// exactly one capture loop.
type Processor struct {
	inRate  int
	outRate int
	chunker *FrameChunker
}

func NewProcessor(inRate, outRate, frameSamples int) *Processor {
	return &Processor{
		inRate:  inRate,
		outRate: outRate,
		chunker: NewFrameChunker(frameSamples),
	}
}

// Process runs one capture batch through the pipeline and returns the wire
// frames it completed, in order. Most batches return no frames; a 128-sample
// batch at 48 kHz contributes ~42 samples toward the next frame.
func (p *Processor) Process(batch []float32) [][]byte {
	return p.chunker.Push(QuantizePCM16(Resample(batch, p.inRate, p.outRate)))
}

// PendingSamples reports how many quantized samples await the next frame.
func (p *Processor) PendingSamples() int {
	return p.chunker.Pending()
}

// Reset drops buffered samples so the next Push starts a fresh frame.
func (p *Processor) Reset() {
	p.chunker.Reset()
}
