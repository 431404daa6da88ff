package video

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Encoder writes a sequence of rendered frames plus a mixed audio track to
// an output video file. Frames are handed to ffmpeg over stdin as a raw
// PNG image pipe (simplest reliable interchange that doesn't require
// matching ffmpeg-go's raw-frame pixel-format plumbing exactly); audio is
// muxed in from a separate WAV file written once export completes (spec
// §5 export pipeline).
type Encoder struct {
	outputPath string
	fps        int
	width, height int
	cmd        *exec.Cmd
	stdin      io.WriteCloser
}

// NewEncoder starts an ffmpeg process reading an image2pipe of PNG frames
// on stdin and writing outputPath at fps.
func NewEncoder(outputPath string, width, height, fps int) (*Encoder, error) {
	stream := ffmpeg.Input("pipe:0", ffmpeg.KwArgs{"f": "image2pipe", "framerate": fps}).
		Output(outputPath, ffmpeg.KwArgs{"pix_fmt": "yuv420p", "vcodec": "libx264"}).
		OverWriteOutput()

	cmd := stream.Compile()
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("video: opening encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("video: starting encoder process: %w", err)
	}

	return &Encoder{
		outputPath: outputPath,
		fps:        fps,
		width:      width,
		height:     height,
		cmd:        cmd,
		stdin:      stdin,
	}, nil
}

// WriteFrame encodes one RGBA frame into the output stream.
func (e *Encoder) WriteFrame(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("video: encoding frame to PNG: %w", err)
	}
	if _, err := e.stdin.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("video: writing frame to encoder: %w", err)
	}
	return nil
}

// Close finishes the video-only stream and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	if err := e.stdin.Close(); err != nil {
		return fmt.Errorf("video: closing encoder stdin: %w", err)
	}
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("video: encoder process exited with error: %w", err)
	}
	return nil
}

// MuxAudio remuxes a separately-encoded audio track into an already
// video-encoded file, writing the result to finalPath.
func MuxAudio(videoPath, audioPath, finalPath string) error {
	err := ffmpeg.Input(videoPath).
		Output(finalPath, ffmpeg.KwArgs{"c:v": "copy", "c:a": "aac", "shortest": ""}).
		WithInput(ffmpeg.Input(audioPath)).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("video: muxing audio into %q: %w", finalPath, err)
	}
	return nil
}

// WriteWAV writes mono/stereo float32 PCM samples to a 16-bit PCM WAV
// file for MuxAudio to pick up, the simplest intermediate format ffmpeg
// reads without extra codec negotiation.
func WriteWAV(path string, samples []float32, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("video: creating %q: %w", path, err)
	}
	defer f.Close()

	dataSize := len(samples) * 2
	writeWAVHeader(f, dataSize, sampleRate, channels)
	buf := make([]byte, 2)
	for _, s := range samples {
		v := int16(clampSample(s) * 32767)
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("video: writing %q: %w", path, err)
		}
	}
	return nil
}

func clampSample(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

func writeWAVHeader(w io.Writer, dataSize, sampleRate, channels int) {
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	putU32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	putU32(header[16:20], 16)
	putU16(header[20:22], 1)
	putU16(header[22:24], uint16(channels))
	putU32(header[24:28], uint32(sampleRate))
	putU32(header[28:32], uint32(byteRate))
	putU16(header[32:34], uint16(blockAlign))
	putU16(header[34:36], 16)
	copy(header[36:40], "data")
	putU32(header[40:44], uint32(dataSize))
	w.Write(header)
}

func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func putU16(b []byte, v uint16) {
	b[0], b[1] = byte(v), byte(v>>8)
}
