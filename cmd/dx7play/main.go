// main.go - interactive terminal piano: raw stdin keystrokes become MIDI
// note on/off events fed into a dx7 engine, rendered through oto.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/opfm/dx7engine"
)

const sampleRate = 44100

func main() {
	bankPath := flag.String("bank", "", "path to a 4096-byte sysex bulk-dump bank to load at startup")
	flag.Parse()

	engine, err := dx7.Create(sampleRate, dx7.WithLogger(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dx7play: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	if *bankPath != "" {
		data, err := os.ReadFile(*bankPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dx7play: reading bank: %v\n", err)
			os.Exit(1)
		}
		if err := engine.LoadBank(data); err != nil {
			fmt.Fprintf(os.Stderr, "dx7play: loading bank: %v\n", err)
			os.Exit(1)
		}
	}

	player, err := newAudioPlayer(sampleRate, engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dx7play: audio: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()
	player.Start()

	host, err := newKeyboardHost(engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dx7play: keyboard: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("dx7play: row a-k plays C4..C5, q toggles sustain, esc quits")
	host.Run()
}
