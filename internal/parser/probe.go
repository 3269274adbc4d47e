package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// Decode opens an mp3 or wav file
func Decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio file %v", file)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

// Probe measures the length of an audio file
func Probe(file string) (time.Duration, error) {
	streamer, format, err := Decode(file)
	if nil != err {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
