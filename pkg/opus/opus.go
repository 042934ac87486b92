// Package opus binds libopus for encoding and decoding signed 16-bit PCM audio.
//
// The binding is a strict pass-through: every error code produced by libopus
// reaches the caller verbatim (wrapped in an Error), and no buffering or
// remapping happens on this side of the call boundary.
package opus

/*
#cgo pkg-config: opus
#include <opus/opus.h>

int portopus_encoder_set_bitrate(OpusEncoder *st, opus_int32 bitrate) {
	return opus_encoder_ctl(st, OPUS_SET_BITRATE(bitrate));
}

int portopus_encoder_set_complexity(OpusEncoder *st, opus_int32 complexity) {
	return opus_encoder_ctl(st, OPUS_SET_COMPLEXITY(complexity));
}

int portopus_encoder_reset(OpusEncoder *st) {
	return opus_encoder_ctl(st, OPUS_RESET_STATE);
}

int portopus_decoder_reset(OpusDecoder *st) {
	return opus_decoder_ctl(st, OPUS_RESET_STATE);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Error carries a libopus error code unchanged.
type Error C.int

func (err Error) Error() string {
	return fmt.Sprintf("libopus: %v",
		C.GoString(C.opus_strerror(C.int(err))),
	)
}

// Code returns the native libopus error code (always negative).
func (err Error) Code() int {
	return int(err)
}

// Application selects the codec operating mode at encoder creation.
type Application C.int

const (
	// AppVoIP favours speech intelligibility.
	AppVoIP Application = C.OPUS_APPLICATION_VOIP
	// AppAudio favours fidelity for general audio and music.
	AppAudio Application = C.OPUS_APPLICATION_AUDIO
	// AppRestrictedLowDelay disables the speech-optimized modes to minimize latency.
	AppRestrictedLowDelay Application = C.OPUS_APPLICATION_RESTRICTED_LOWDELAY
)

// ErrBadArg is the code libopus reports for an invalid argument. The FFI
// layer reuses it when a token fails to resolve.
const ErrBadArg Error = C.OPUS_BAD_ARG

// Version returns the libopus version identifier, e.g. "libopus 1.4".
func Version() string {
	return C.GoString(C.opus_get_version_string())
}

// RawVersion returns libopus's own statically allocated, null-terminated
// version string, for re-export across an FFI boundary. The storage is
// library-owned and must not be freed.
func RawVersion() unsafe.Pointer {
	return unsafe.Pointer(C.opus_get_version_string())
}

// Encoder is an Opus encoding session for a fixed sample rate and channel count.
//
// An Encoder is not safe for concurrent use. After Destroy, all further
// method calls are undefined.
type Encoder struct {
	encoder        *C.OpusEncoder
	rate, channels int
}

// NewEncoder creates an encoder session.
//
// rate must be one of the rates accepted by libopus (8000, 12000, 16000,
// 24000 or 48000 Hz) and channels must be 1 or 2; libopus rejects anything
// else with OPUS_BAD_ARG.
func NewEncoder(rate int, channels int, app Application) (*Encoder, error) {
	var errCode C.int
	encoder := C.opus_encoder_create(
		C.opus_int32(rate),
		C.int(channels),
		C.int(app),
		&errCode,
	)
	if encoder == nil {
		return nil, Error(errCode)
	}
	return &Encoder{
		encoder:  encoder,
		rate:     rate,
		channels: channels,
	}, nil
}

// Destroy releases the encoder state. It never fails.
func (encoder *Encoder) Destroy() {
	C.opus_encoder_destroy(encoder.encoder)
	encoder.encoder = nil
}

// Encode compresses one frame of interleaved PCM into data.
//
// The frame size (len(pcm) divided by the channel count) must be one of the
// sizes libopus permits for the session's sample rate: 2.5, 5, 10, 20, 40 or
// 60 ms worth of samples. At most len(data) octets are produced; the return
// value is the number of octets written.
func (encoder *Encoder) Encode(pcm []int16, data []byte) (int, error) {
	rc := C.opus_encode(
		encoder.encoder,
		(*C.opus_int16)(unsafe.SliceData(pcm)),
		C.int(len(pcm)/encoder.channels),
		(*C.uchar)(unsafe.SliceData(data)),
		C.opus_int32(len(data)),
	)
	if rc < 0 {
		return 0, Error(rc)
	}
	return int(rc), nil
}

// SetBitrate sets the target bitrate in bits per second.
func (encoder *Encoder) SetBitrate(bitrate int) error {
	rc := C.portopus_encoder_set_bitrate(encoder.encoder, C.opus_int32(bitrate))
	if rc < 0 {
		return Error(rc)
	}
	return nil
}

// SetComplexity sets the encoder's computational complexity, 0 to 10.
func (encoder *Encoder) SetComplexity(complexity int) error {
	rc := C.portopus_encoder_set_complexity(encoder.encoder, C.opus_int32(complexity))
	if rc < 0 {
		return Error(rc)
	}
	return nil
}

// Reset returns the encoder to its freshly-created state without reallocating.
func (encoder *Encoder) Reset() error {
	rc := C.portopus_encoder_reset(encoder.encoder)
	if rc < 0 {
		return Error(rc)
	}
	return nil
}

// Channels returns the channel count the encoder was created with.
func (encoder *Encoder) Channels() int {
	return encoder.channels
}

// SampleRate returns the sample rate the encoder was created with.
func (encoder *Encoder) SampleRate() int {
	return encoder.rate
}

// Decoder is an Opus decoding session for a fixed sample rate and channel count.
//
// A Decoder is not safe for concurrent use. After Destroy, all further
// method calls are undefined.
type Decoder struct {
	decoder        *C.OpusDecoder
	rate, channels int
}

// NewDecoder creates a decoder session. See NewEncoder for the accepted
// sample rates and channel counts.
func NewDecoder(rate int, channels int) (*Decoder, error) {
	var errCode C.int
	decoder := C.opus_decoder_create(
		C.opus_int32(rate),
		C.int(channels),
		&errCode,
	)
	if decoder == nil {
		return nil, Error(errCode)
	}
	return &Decoder{
		decoder:  decoder,
		rate:     rate,
		channels: channels,
	}, nil
}

// Destroy releases the decoder state. It never fails.
func (decoder *Decoder) Destroy() {
	C.opus_decoder_destroy(decoder.decoder)
	decoder.decoder = nil
}

// Decode decompresses one packet into pcm, which must have room for a full
// frame of interleaved samples.
//
// When fec is true and data holds the packet *following* a lost one, the
// decoder recovers the missing frame from the redundancy embedded in data.
// Returns the number of samples decoded per channel.
func (decoder *Decoder) Decode(data []byte, pcm []int16, fec bool) (int, error) {
	fecFlag := C.int(0)
	if fec {
		fecFlag = C.int(1)
	}

	rc := C.opus_decode(
		decoder.decoder,
		(*C.uchar)(unsafe.SliceData(data)),
		C.opus_int32(len(data)),
		(*C.opus_int16)(unsafe.SliceData(pcm)),
		C.int(len(pcm)/decoder.channels),
		fecFlag,
	)
	if rc < 0 {
		return 0, Error(rc)
	}
	return int(rc), nil
}

// Reset returns the decoder to its freshly-created state without reallocating.
func (decoder *Decoder) Reset() error {
	rc := C.portopus_decoder_reset(decoder.decoder)
	if rc < 0 {
		return Error(rc)
	}
	return nil
}

// Channels returns the channel count the decoder was created with.
func (decoder *Decoder) Channels() int {
	return decoder.channels
}

// SampleRate returns the sample rate the decoder was created with.
func (decoder *Decoder) SampleRate() int {
	return decoder.rate
}
