// C-linkage entry points for foreign-function callers, built as a shared
// library:
//
//	go build -buildmode=c-shared -o libportopus.so ./capi
//
// The generated header declares every entry point below. Handles cross the
// boundary as uintptr_t tokens wide enough for a native machine word;
// buffers cross as raw pointer plus length and are borrowed only for the
// duration of a call. All return codes are the underlying libraries' own.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/internal/handle"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/opus"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/portaudio"
)

//export encoder_create
func encoder_create(sampleRate C.int32_t, channels C.int, application C.int, errOut *C.int) C.uintptr_t {
	token, code := encoderCreate(int(sampleRate), int(channels), int(application))
	if errOut != nil {
		*errOut = C.int(code)
	}
	return C.uintptr_t(token)
}

//export encoder_destroy
func encoder_destroy(encoder C.uintptr_t) C.int {
	return C.int(encoderDestroy(handle.Token(encoder)))
}

//export encode
func encode(encoder C.uintptr_t, pcm *C.int16_t, frameSize C.int, data *C.uchar, maxDataBytes C.int) C.int {
	return C.int(encodeFrame(
		handle.Token(encoder),
		unsafe.Pointer(pcm),
		int(frameSize),
		unsafe.Pointer(data),
		int(maxDataBytes),
	))
}

//export decoder_create
func decoder_create(sampleRate C.int32_t, channels C.int, errOut *C.int) C.uintptr_t {
	token, code := decoderCreate(int(sampleRate), int(channels))
	if errOut != nil {
		*errOut = C.int(code)
	}
	return C.uintptr_t(token)
}

//export decoder_destroy
func decoder_destroy(decoder C.uintptr_t) C.int {
	return C.int(decoderDestroy(handle.Token(decoder)))
}

//export decode
func decode(decoder C.uintptr_t, data *C.uchar, dataLen C.int, pcm *C.int16_t, frameSize C.int, decodeFec C.int) C.int {
	return C.int(decodeFrame(
		handle.Token(decoder),
		unsafe.Pointer(data),
		int(dataLen),
		unsafe.Pointer(pcm),
		int(frameSize),
		int(decodeFec),
	))
}

//export version_string
func version_string() *C.char {
	// libopus owns this storage; the caller must not free it.
	return (*C.char)(opus.RawVersion())
}

//export host_init
func host_init() C.int {
	return C.int(hostInit())
}

//export host_terminate
func host_terminate() C.int {
	return C.int(hostTerminate())
}

//export device_count
func device_count() C.int {
	return C.int(deviceCount())
}

//export device_info
func device_info(device C.int) unsafe.Pointer {
	// PortAudio owns this storage; it is valid only while the host library
	// remains initialized.
	return portaudio.RawDeviceInfo(int(device))
}

//export error_text
func error_text(errorCode C.int) *C.char {
	// PortAudio owns this storage; the caller must not free it.
	return (*C.char)(portaudio.RawErrorText(int(errorCode)))
}

//export stream_open
func stream_open(streamOut *C.uintptr_t, inputDevice C.int, outputDevice C.int, sampleRate C.double, framesPerBuffer C.ulong, streamFlags C.ulong) C.int {
	token, code := streamOpen(
		int(inputDevice),
		int(outputDevice),
		float64(sampleRate),
		int(framesPerBuffer),
		uint64(streamFlags),
	)
	if streamOut != nil {
		*streamOut = C.uintptr_t(token)
	}
	return C.int(code)
}

//export stream_start
func stream_start(stream C.uintptr_t) C.int {
	return C.int(streamStart(handle.Token(stream)))
}

//export stream_stop
func stream_stop(stream C.uintptr_t) C.int {
	return C.int(streamStop(handle.Token(stream)))
}

//export stream_close
func stream_close(stream C.uintptr_t) C.int {
	return C.int(streamClose(handle.Token(stream)))
}

//export stream_is_active
func stream_is_active(stream C.uintptr_t) C.int {
	return C.int(streamIsActive(handle.Token(stream)))
}

//export stream_read
func stream_read(stream C.uintptr_t, buffer *C.int16_t, frames C.ulong) C.int {
	return C.int(streamRead(handle.Token(stream), unsafe.Pointer(buffer), int(frames)))
}

//export stream_write
func stream_write(stream C.uintptr_t, buffer *C.int16_t, frames C.ulong) C.int {
	return C.int(streamWrite(handle.Token(stream), unsafe.Pointer(buffer), int(frames)))
}

// main is required by buildmode=c-shared and never runs.
func main() {}
