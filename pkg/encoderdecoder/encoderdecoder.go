package encoderdecoder

import (
	"errors"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
)

type EncoderDecoderTypeEnum string

var (
	EncoderDecoderTypeNull EncoderDecoderTypeEnum = "null"
	EncoderDecoderTypeOpus EncoderDecoderTypeEnum = "opus"
)

var (
	errEncoderDecoderTypeNotImplemented = errors.New("specified encoderdecoder type is not implemented")
)

// Audio encoder/decoder interface.
// Used to encode raw PCM frames to an encoded frame,
// and decode those frames back to PCM frames.
type EncoderDecoder interface {
	Encode(pcmData frame.PCMFrame) (frame.EncodedFrame, error)
	Decode(encodedData frame.EncodedFrame) (frame.PCMFrame, error)
}

// Create a new encoder/decoder of the requested type.
// If something goes wrong during creation (e.g. the type has no
// implementation, or the underlying codec rejects the format) then a nil
// EncoderDecoder and an error is returned.
func NewEncoderDecoder(
	encoderdecoderID EncoderDecoderTypeEnum,
	sampleRate int,
	numChannels int,
) (EncoderDecoder, error) {
	switch encoderdecoderID {
	case EncoderDecoderTypeNull:
		return NullEncoderDecoder{}, nil
	case EncoderDecoderTypeOpus:
		return newOpusEncoderDecoder(sampleRate, numChannels)
	default:
		return nil, errEncoderDecoderTypeNotImplemented
	}
}
