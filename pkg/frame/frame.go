package frame

// A single frame of raw audio data, as interleaved signed 16-bit linear PCM samples.
//
// For mono audio (the only format the stream layer produces) one frame element
// is one sample. Stereo data, where it appears in the file and conversion
// devices, is interleaved left/right.
type PCMFrame []int16

// A single frame of encoded (compressed) audio data, e.g. an Opus packet.
type EncodedFrame []byte
