package director

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// AudioTrack is a decoded PCM source an Element (Video, or a dedicated
// audio node) can expose via Element.GetAudio.
type AudioTrack struct {
	Samples    []float32 // interleaved if Channels > 1
	SampleRate int
	Channels   int
}

// bandEnergy returns the RMS energy of loPct..hiPct of the FFT magnitude
// spectrum (both in [0,1] of Nyquist) of the given window, powering
// AudioBinding dispatch (spec §4.6).
func bandEnergy(window []float32, sampleRate int, loPct, hiPct float64) float64 {
	if len(window) == 0 {
		return 0
	}
	complexIn := make([]complex128, len(window))
	for i, s := range window {
		complexIn[i] = complex(float64(s), 0)
	}
	spectrum := fft.FFT(complexIn)
	n := len(spectrum) / 2
	lo := clampInt(int(loPct*float64(n)), 0, n)
	hi := clampInt(int(hiPct*float64(n)), 0, n)
	if hi <= lo {
		hi = lo + 1
	}
	if hi > n {
		hi = n
	}
	sum := 0.0
	for i := lo; i < hi; i++ {
		mag := cmplxAbs(spectrum[i])
		sum += mag * mag
	}
	count := hi - lo
	if count <= 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

func cmplxAbs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bandRange maps a named band to the fraction-of-Nyquist range
// bandEnergy expects, matching the original engine's bass/mids/highs
// split.
func bandRange(binding *AudioBinding) (lo, hi float64) {
	switch binding.Band {
	case "bass":
		return 0, 0.1
	case "mids":
		return 0.1, 0.5
	case "highs":
		return 0.5, 1.0
	case "custom":
		return binding.CustomLow, binding.CustomHigh
	default:
		return 0, 1
	}
}

// applyAudioBindings evaluates every AudioBinding on n against its bound
// track's current window and writes the smoothed, range-mapped result
// into the corresponding transform/opacity property, overriding that
// property's keyframed value for this frame (spec §4.6).
func (d *Director) applyAudioBindings(n *SceneNode, localTime float64) {
	if len(n.AudioBindings) == 0 {
		return
	}
	track := d.mixer.trackFor(n)
	if track == nil {
		return
	}
	const windowSize = 1024
	startSample := int(localTime * float64(track.SampleRate))
	window := extractWindow(track, startSample, windowSize)

	for i := range n.AudioBindings {
		b := &n.AudioBindings[i]
		lo, hi := bandRange(b)
		energy := bandEnergy(window, track.SampleRate, lo, hi)
		energy = clamp01(energy)
		mapped := b.MinValue + energy*(b.MaxValue-b.MinValue)

		smoothing := clamp01(b.Smoothing)
		value := b.prevValue*smoothing + mapped*(1-smoothing)
		b.prevValue = value

		writeAudioProperty(n, b.Property, value)
	}
}

func extractWindow(track *AudioTrack, startSample, size int) []float32 {
	if track == nil || len(track.Samples) == 0 {
		return nil
	}
	ch := track.Channels
	if ch < 1 {
		ch = 1
	}
	totalFrames := len(track.Samples) / ch
	if startSample < 0 {
		startSample = 0
	}
	if startSample >= totalFrames {
		return nil
	}
	end := startSample + size
	if end > totalFrames {
		end = totalFrames
	}
	out := make([]float32, end-startSample)
	for i := startSample; i < end; i++ {
		out[i-startSample] = track.Samples[i*ch]
	}
	return out
}

// writeAudioProperty overrides a transform channel's CurrentValue (or the
// node's opacity override) for this frame only — it does not touch the
// animation's keyframes, so next frame's ordinary Update recomputes the
// unmodified baseline before bindings are reapplied.
func writeAudioProperty(n *SceneNode, property string, value float64) {
	switch property {
	case "scale":
		n.Transform.ScaleX.CurrentValue = value
		n.Transform.ScaleY.CurrentValue = value
	case "scale_x":
		n.Transform.ScaleX.CurrentValue = value
	case "scale_y":
		n.Transform.ScaleY.CurrentValue = value
	case "x":
		n.Transform.TranslateX.CurrentValue = value
	case "y":
		n.Transform.TranslateY.CurrentValue = value
	case "rotation":
		n.Transform.Rotation.CurrentValue = value
	case "opacity":
		if n.Element != nil {
			n.Element.SetOpacityOverride(value)
		}
	}
}

// GlobalAudioTrack is an independently timed PCM source mixed directly into
// the Director's output rather than read through a scene-graph element's
// GetAudio (spec §4.6/§4.9 add_global_audio) — a music bed or narration
// track that isn't attached to any visual node. Path records where its
// samples were sourced from for diagnostics; decoding PCM from a file is a
// caller concern (out of scope here, same posture as AudioTrack itself).
type GlobalAudioTrack struct {
	Path       string
	Samples    []float32 // interleaved if Channels > 1
	SampleRate int
	Channels   int

	StartTime     float64
	Duration      float64 // 0 = unbounded, never clips
	Loop          bool
	HardClip      bool
	CurrentVolume float64
}

// AudioMixer sums the audio contributions of every active audio-bearing
// node for export/preview muxing (spec §5 audio pass), plus any registered
// GlobalAudioTracks. Hard-clipped regions always win over a looping
// track's wraparound (SUPPLEMENTED FEATURES item 10: a track whose
// timeline item is both Loop and HardClip stops, rather than looping, once
// the clip boundary is hit — the same rule TimelineItem.localTimeAt
// already enforces for visual playback, so audio follows identically
// since it reads the same localTime).
type AudioMixer struct {
	tracks       map[NodeId]*AudioTrack
	globalTracks []*GlobalAudioTrack
}

func NewAudioMixer() *AudioMixer {
	return &AudioMixer{tracks: make(map[NodeId]*AudioTrack)}
}

// AddGlobalTrack registers a track to be summed into every Mix call from
// now on (spec §4.9 add_global_audio).
func (m *AudioMixer) AddGlobalTrack(t *GlobalAudioTrack) {
	m.globalTracks = append(m.globalTracks, t)
}

// mixGlobalTracks implements spec §4.6's AudioMixer::mix for the
// independently-timed global track list: for each track, step
// sample-by-sample computing the track-relative time
// r = t0 + i/sr - track.start_time, skip samples before the track starts,
// stop at a set Duration whether or not the track loops (a looping track
// wraps through its samples until then, or indefinitely when Duration is
// 0), and accumulate sample*current_volume.
func (m *AudioMixer) mixGlobalTracks(nSamples int, t0 float64, sampleRate int) []float32 {
	if nSamples <= 0 || len(m.globalTracks) == 0 {
		return nil
	}
	out := make([]float32, nSamples)
	for _, track := range m.globalTracks {
		if track == nil || len(track.Samples) == 0 || track.SampleRate <= 0 {
			continue
		}
		ch := track.Channels
		if ch < 1 {
			ch = 1
		}
		totalFrames := len(track.Samples) / ch
		if totalFrames == 0 {
			continue
		}
		period := float64(totalFrames) / float64(track.SampleRate)
		vol := float32(track.CurrentVolume)

		for i := 0; i < nSamples; i++ {
			r := t0 + float64(i)/float64(sampleRate) - track.StartTime
			if r < 0 {
				continue
			}
			if track.Duration > 0 && r >= track.Duration {
				continue
			}
			sampleR := r
			if track.Loop && !(track.HardClip && track.Duration > 0 && r >= track.Duration) {
				sampleR = mod(r, period)
			} else if sampleR >= period {
				continue
			}
			frame := int(sampleR * float64(track.SampleRate))
			if frame < 0 || frame >= totalFrames {
				continue
			}
			out[i] += track.Samples[frame*ch] * vol
		}
	}
	for i := range out {
		if out[i] > 1 {
			out[i] = 1
		} else if out[i] < -1 {
			out[i] = -1
		}
	}
	return out
}

// BindTrack associates a decoded audio track with a scene node (typically
// a Video element's audio stream) for band-energy analysis.
func (m *AudioMixer) BindTrack(id NodeId, track *AudioTrack) {
	m.tracks[id] = track
}

func (m *AudioMixer) trackFor(n *SceneNode) *AudioTrack {
	return m.tracks[n.id]
}

// Mix sums GetAudio output from every active node in scene across
// [t, t+duration), at sampleRate, mono-summed (stereo/channel layout is an
// encoder concern, handled downstream by the export muxer).
func (m *AudioMixer) Mix(scene *Scene, t, duration float64, sampleRate int, globalTime float64) []float32 {
	n := int(duration * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)
	scene.Each(func(id NodeId, node *SceneNode) {
		if !node.isActiveAt(globalTime) || node.Element == nil {
			return
		}
		samples := node.Element.GetAudio(t, n, sampleRate)
		for i := 0; i < len(samples) && i < len(out); i++ {
			out[i] += samples[i]
		}
	})
	for i := range out {
		if out[i] > 1 {
			out[i] = 1
		} else if out[i] < -1 {
			out[i] = -1
		}
	}
	return out
}
