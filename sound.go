package main

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
	"github.com/milk9111/suika/prefabs"
)

const sampleRate = 44100

type tone struct {
	pcm    []byte
	volume float64
}

// SoundSystem plays SoundRequest entities with generated tones and destroys
// them.
type SoundSystem struct {
	ctx   *audio.Context
	tones map[string]tone
}

func NewSoundSystem(specs []prefabs.AudioSpec) *SoundSystem {
	s := &SoundSystem{ctx: audio.NewContext(sampleRate)}
	s.SetTones(specs)
	return s
}

func (s *SoundSystem) SetTones(specs []prefabs.AudioSpec) {
	tones := make(map[string]tone, len(specs))
	for _, spec := range specs {
		if spec.Name == "" || spec.Freq <= 0 || spec.DurationMS <= 0 {
			log.Printf("sound: skipping tone %+v", spec)
			continue
		}
		tones[spec.Name] = tone{pcm: synthesize(spec.Freq, spec.DurationMS), volume: spec.Volume}
	}
	s.tones = tones
}

func (s *SoundSystem) Update(w *ecs.World) {
	var done []ecs.Entity
	ecs.ForEach(w, component.SoundRequestComponent.Kind(), func(e ecs.Entity, req *component.SoundRequest) {
		s.Play(req.Name, req.Volume)
		done = append(done, e)
	})
	for _, e := range done {
		ecs.DestroyEntity(w, e)
	}
}

// Play starts a tone. A volume of 0 uses the tone's configured volume.
func (s *SoundSystem) Play(name string, volume float64) {
	t, ok := s.tones[name]
	if !ok {
		return
	}
	if volume <= 0 {
		volume = t.volume
	}
	p := s.ctx.NewPlayerFromBytes(t.pcm)
	p.SetVolume(volume)
	p.Play()
}

// synthesize renders a sine tone as 16-bit little-endian stereo PCM with a
// linear fade out.
func synthesize(freq float64, durationMS int) []byte {
	n := sampleRate * durationMS / 1000
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		env := 1 - float64(i)/float64(n)
		v := math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * env
		sample := uint16(int16(v * math.MaxInt16 * 0.8))
		binary.LittleEndian.PutUint16(buf[4*i:], sample)
		binary.LittleEndian.PutUint16(buf[4*i+2:], sample)
	}
	return buf
}
