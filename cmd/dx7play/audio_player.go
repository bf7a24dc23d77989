// audio_player.go - oto v3 audio output, pulling rendered samples from a
// dx7 engine on demand (adapted from the oto-backed audio output pattern
// used elsewhere in the corpus this tool was built alongside).
package main

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/opfm/dx7engine"
)

// renderBlockSamples is the unit GetSamples is always called with; any
// remainder oto asks for beyond a whole multiple is zero-filled.
const renderBlockSamples = 256

type audioPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	engine *dx7.Engine

	mu      sync.Mutex
	started bool
	scratch []int16
}

func newAudioPlayer(sampleRate int, engine *dx7.Engine) (*audioPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0, // library default
	})
	if err != nil {
		return nil, err
	}
	<-ready

	ap := &audioPlayer{
		ctx:     ctx,
		engine:  engine,
		scratch: make([]int16, renderBlockSamples),
	}
	ap.player = ctx.NewPlayer(ap)
	return ap, nil
}

// Read implements io.Reader for oto: it fills p with as many whole
// renderBlockSamples chunks as fit, rendering each one from the engine.
func (ap *audioPlayer) Read(p []byte) (int, error) {
	n := 0
	for n+renderBlockSamples*2 <= len(p) {
		if err := ap.engine.GetSamples(renderBlockSamples, ap.scratch); err != nil {
			break
		}
		for _, s := range ap.scratch {
			binary.LittleEndian.PutUint16(p[n:n+2], uint16(s))
			n += 2
		}
	}
	for n < len(p) {
		p[n] = 0
		n++
	}
	return len(p), nil
}

func (ap *audioPlayer) Start() {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	if !ap.started {
		ap.player.Play()
		ap.started = true
	}
}

func (ap *audioPlayer) Close() error {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	if ap.started {
		ap.player.Close()
		ap.started = false
	}
	return nil
}
