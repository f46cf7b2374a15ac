package main

import (
	"bytes"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	chimeSampleRate = 44100
	chimeFrequency  = 880.0
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool

	chimeData     []byte
	chimeDataOnce sync.Once
)

// AudioPlayer manages chime playback with cancellation support
type AudioPlayer struct {
	stopChan chan struct{}
	player   *oto.Player
}

// initAudioContext initializes the global audio context once
func initAudioContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   chimeSampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// buildChime synthesizes the reminder chime: three short pulses with a
// decaying envelope, signed 16-bit mono PCM.
func buildChime() []byte {
	const (
		pulse = 200 * time.Millisecond
		gap   = 120 * time.Millisecond
	)

	pulseSamples := int(chimeSampleRate * pulse.Seconds())
	gapSamples := int(chimeSampleRate * gap.Seconds())

	var buf bytes.Buffer
	writeSample := func(v float64) {
		s := int16(v * math.MaxInt16)
		buf.WriteByte(byte(s))
		buf.WriteByte(byte(s >> 8))
	}

	for p := 0; p < 3; p++ {
		for i := 0; i < pulseSamples; i++ {
			t := float64(i) / chimeSampleRate
			envelope := 1.0 - float64(i)/float64(pulseSamples)
			writeSample(0.4 * envelope * math.Sin(2*math.Pi*chimeFrequency*t))
		}
		for i := 0; i < gapSamples; i++ {
			writeSample(0)
		}
	}

	return buf.Bytes()
}

// playChime plays the reminder chime and returns an AudioPlayer, or nil if
// audio is unavailable.
func playChime() *AudioPlayer {
	chimeDataOnce.Do(func() {
		chimeData = buildChime()
	})

	initAudioContext()
	if !audioCtxReady || globalAudioCtx == nil {
		log.Printf("Audio context not ready")
		return nil
	}

	ap := &AudioPlayer{
		stopChan: make(chan struct{}),
	}

	// Play the sound in a goroutine so it doesn't block
	go func() {
		ap.player = globalAudioCtx.NewPlayer(bytes.NewReader(chimeData))
		ap.player.Play()

		// Wait for the sound to finish playing or stop signal
		for ap.player.IsPlaying() {
			select {
			case <-ap.stopChan:
				ap.player.Close()
				return
			case <-time.After(time.Millisecond):
				// Continue checking
			}
		}

		if err := ap.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}()

	return ap
}

// Stop stops the audio playback
func (ap *AudioPlayer) Stop() {
	if ap != nil {
		close(ap.stopChan)
	}
}
