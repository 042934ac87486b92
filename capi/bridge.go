package main

import (
	"errors"
	"unsafe"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/internal/handle"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/opus"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/portaudio"
)

// Per-family token tables. A token handed out for one family never resolves
// in another, so an encoder token passed to a decoder operation fails
// cleanly instead of aliasing.
var (
	encoders = handle.NewTable[*opus.Encoder]()
	decoders = handle.NewTable[*opus.Decoder]()
	streams  = handle.NewTable[*portaudio.Stream]()
)

// opusCode flattens an error from pkg/opus to the native libopus code,
// 0 for nil.
func opusCode(err error) int {
	if err == nil {
		return 0
	}
	var opusErr opus.Error
	if errors.As(err, &opusErr) {
		return opusErr.Code()
	}
	return opus.ErrBadArg.Code()
}

// paCode flattens an error from pkg/portaudio to the native PortAudio code,
// 0 for nil.
func paCode(err error) int {
	if err == nil {
		return 0
	}
	var paErr portaudio.Error
	if errors.As(err, &paErr) {
		return paErr.Code()
	}
	return portaudio.ErrBadStreamPtr.Code()
}

// ---------------------------------------------------------------------------
// Codec surface

func encoderCreate(sampleRate, channels, application int) (handle.Token, int) {
	encoder, err := opus.NewEncoder(sampleRate, channels, opus.Application(application))
	if err != nil {
		return 0, opusCode(err)
	}
	return encoders.Add(encoder), 0
}

// encoderDestroy releases the encoder behind the token. It returns 0
// unconditionally; callers have nothing useful to do with a destroy failure.
func encoderDestroy(token handle.Token) int {
	if encoder, ok := encoders.Remove(token); ok {
		encoder.Destroy()
	}
	return 0
}

// encodeFrame compresses frameSize samples per channel from pcm into at most
// maxDataBytes octets at data. Returns the octet count or a negative libopus
// code. Both buffers are borrowed from the caller for this call only.
func encodeFrame(token handle.Token, pcm unsafe.Pointer, frameSize int, data unsafe.Pointer, maxDataBytes int) int {
	encoder, ok := encoders.Get(token)
	if !ok {
		return opus.ErrBadArg.Code()
	}

	// A negative length would panic slice construction and take the whole
	// embedding process with it; report it the way libopus itself would.
	if frameSize < 0 || maxDataBytes < 0 {
		return opus.ErrBadArg.Code()
	}

	pcmIn := unsafe.Slice((*int16)(pcm), frameSize*encoder.Channels())
	dataOut := unsafe.Slice((*byte)(data), maxDataBytes)

	n, err := encoder.Encode(pcmIn, dataOut)
	if err != nil {
		return opusCode(err)
	}
	return n
}

func decoderCreate(sampleRate, channels int) (handle.Token, int) {
	decoder, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return 0, opusCode(err)
	}
	return decoders.Add(decoder), 0
}

func decoderDestroy(token handle.Token) int {
	if decoder, ok := decoders.Remove(token); ok {
		decoder.Destroy()
	}
	return 0
}

// decodeFrame decompresses dataLen octets at data into pcm, which holds room
// for frameSize samples per channel. decodeFEC non-zero requests recovery of
// a lost frame from the redundancy in data. Returns samples decoded per
// channel or a negative libopus code.
func decodeFrame(token handle.Token, data unsafe.Pointer, dataLen int, pcm unsafe.Pointer, frameSize, decodeFEC int) int {
	decoder, ok := decoders.Get(token)
	if !ok {
		return opus.ErrBadArg.Code()
	}

	// Same as encodeFrame: never panic across the shared-library boundary.
	if dataLen < 0 || frameSize < 0 {
		return opus.ErrBadArg.Code()
	}

	dataIn := unsafe.Slice((*byte)(data), dataLen)
	pcmOut := unsafe.Slice((*int16)(pcm), frameSize*decoder.Channels())

	n, err := decoder.Decode(dataIn, pcmOut, decodeFEC != 0)
	if err != nil {
		return opusCode(err)
	}
	return n
}

// ---------------------------------------------------------------------------
// Audio-host surface

func hostInit() int {
	return paCode(portaudio.Initialize())
}

func hostTerminate() int {
	return paCode(portaudio.Terminate())
}

func deviceCount() int {
	count, err := portaudio.DeviceCount()
	if err != nil {
		return paCode(err)
	}
	return count
}

// ---------------------------------------------------------------------------
// Stream surface

// streamOpen opens a blocking mono int16 stream and returns its token with
// code 0, or token 0 with the PortAudio error code. A negative device index
// leaves that direction out of the stream.
func streamOpen(inputDevice, outputDevice int, sampleRate float64, framesPerBuffer int, flags uint64) (handle.Token, int) {
	stream, err := portaudio.OpenStream(inputDevice, outputDevice, sampleRate, framesPerBuffer, portaudio.StreamFlags(flags))
	if err != nil {
		return 0, paCode(err)
	}
	return streams.Add(stream), 0
}

func streamStart(token handle.Token) int {
	stream, ok := streams.Get(token)
	if !ok {
		return portaudio.ErrBadStreamPtr.Code()
	}
	return paCode(stream.Start())
}

func streamStop(token handle.Token) int {
	stream, ok := streams.Get(token)
	if !ok {
		return portaudio.ErrBadStreamPtr.Code()
	}
	return paCode(stream.Stop())
}

func streamClose(token handle.Token) int {
	stream, ok := streams.Remove(token)
	if !ok {
		return portaudio.ErrBadStreamPtr.Code()
	}
	return paCode(stream.Close())
}

// streamIsActive returns 1 while transferring, 0 when stopped, or a negative
// PortAudio code.
func streamIsActive(token handle.Token) int {
	stream, ok := streams.Get(token)
	if !ok {
		return portaudio.ErrBadStreamPtr.Code()
	}
	active, err := stream.IsActive()
	if err != nil {
		return paCode(err)
	}
	if active {
		return 1
	}
	return 0
}

// streamRead blocks until frames mono samples have been captured into
// buffer. Returns 0 or a negative PortAudio code.
func streamRead(token handle.Token, buffer unsafe.Pointer, frames int) int {
	stream, ok := streams.Get(token)
	if !ok {
		return portaudio.ErrBadStreamPtr.Code()
	}
	if frames < 0 {
		return portaudio.ErrBadBufferPtr.Code()
	}
	return paCode(stream.Read(unsafe.Slice((*int16)(buffer), frames)))
}

// streamWrite blocks until frames mono samples from buffer have been queued
// for playback. Returns 0 or a negative PortAudio code.
func streamWrite(token handle.Token, buffer unsafe.Pointer, frames int) int {
	stream, ok := streams.Get(token)
	if !ok {
		return portaudio.ErrBadStreamPtr.Code()
	}
	if frames < 0 {
		return portaudio.ErrBadBufferPtr.Code()
	}
	return paCode(stream.Write(unsafe.Slice((*int16)(buffer), frames)))
}
