package encoderdecoder

import (
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
)

// NullEncoderDecoder passes audio through without compression, packing each
// sample as two little-endian octets. Useful for testing a pipeline without
// a codec in the way.
type NullEncoderDecoder struct{}

func (encdec NullEncoderDecoder) Encode(pcmData frame.PCMFrame) (frame.EncodedFrame, error) {
	encoded := make(frame.EncodedFrame, 2*len(pcmData))
	for i, sample := range pcmData {
		encoded[2*i] = byte(sample)
		encoded[2*i+1] = byte(sample >> 8)
	}
	return encoded, nil
}

func (encdec NullEncoderDecoder) Decode(encodedData frame.EncodedFrame) (frame.PCMFrame, error) {
	decoded := make(frame.PCMFrame, len(encodedData)/2)
	for i := range decoded {
		decoded[i] = int16(encodedData[2*i]) | int16(encodedData[2*i+1])<<8
	}
	return decoded, nil
}
