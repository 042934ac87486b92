package encoderdecoder

import (
	"errors"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/opus"
)

const (
	// Enough room for several encoded frames; a single 20ms Opus packet at
	// typical voice bitrates is a few hundred octets.
	encodedBufferSize = 4000

	// Enough room for a 120ms stereo frame at 48kHz.
	decodedBufferSize = 11520
)

type OpusEncoderDecoder struct {
	sampleRate  int
	numChannels int

	encoder       *opus.Encoder
	encodingFrame frame.EncodedFrame
	decoder       *opus.Decoder
	decodedFrame  frame.PCMFrame
}

func newOpusEncoderDecoder(sampleRate int, numChannels int) (*OpusEncoderDecoder, error) {
	encoder, errEnc := opus.NewEncoder(sampleRate, numChannels, opus.AppVoIP)
	decoder, errDec := opus.NewDecoder(sampleRate, numChannels)
	if err := errors.Join(errEnc, errDec); err != nil {
		// Release whichever half did come up; the binding has no finalizers
		// to catch a leaked native session.
		if encoder != nil {
			encoder.Destroy()
		}
		if decoder != nil {
			decoder.Destroy()
		}
		return nil, err
	}

	return &OpusEncoderDecoder{
		sampleRate:    sampleRate,
		numChannels:   numChannels,
		encoder:       encoder,
		encodingFrame: make(frame.EncodedFrame, encodedBufferSize),
		decoder:       decoder,
		decodedFrame:  make(frame.PCMFrame, decodedBufferSize),
	}, nil
}

// Encode one PCM frame. The returned slice aliases an internal buffer and is
// only valid until the next Encode call.
func (encdec *OpusEncoderDecoder) Encode(pcmData frame.PCMFrame) (frame.EncodedFrame, error) {
	encodedBytes, err := encdec.encoder.Encode(pcmData, encdec.encodingFrame)
	if err != nil {
		return nil, err
	}
	return encdec.encodingFrame[:encodedBytes], nil
}

// Decode one packet. The returned slice aliases an internal buffer and is
// only valid until the next Decode call.
func (encdec *OpusEncoderDecoder) Decode(encodedData frame.EncodedFrame) (frame.PCMFrame, error) {
	decodedSamples, err := encdec.decoder.Decode(encodedData, encdec.decodedFrame, false)
	if err != nil {
		return nil, err
	}
	return encdec.decodedFrame[:decodedSamples*encdec.numChannels], nil
}

// Close releases the underlying codec sessions.
func (encdec *OpusEncoderDecoder) Close() {
	encdec.encoder.Destroy()
	encdec.decoder.Destroy()
}
