// Package sound decides when the victory sound should be played.
//
// The winner signal is level-triggered (it stays on for as long as a winning board is
// displayed) while playback must be edge-triggered, so a Trigger remembers the last
// observed level and fires only on the absent to present transition.
package sound

const (
	DefaultURL    = "tada.mp3"
	DefaultVolume = 50
)

// Cue describes the sound the audio widget should play.
type Cue struct {
	URL    string `json:"url"`
	Volume int    `json:"volume"`
}

func NewCue(url string, volume int) Cue {
	if url == "" {
		url = DefaultURL
	}

	if volume <= 0 || volume > 100 {
		volume = DefaultVolume
	}

	return Cue{URL: url, Volume: volume}
}

// Trigger is an edge detector over the "a winner exists" signal.
type Trigger struct {
	Present bool `json:"present"`
}

// Observe records the current signal and reports whether playback should start.
func (that *Trigger) Observe(present bool) bool {
	fire := present && !that.Present
	that.Present = present

	return fire
}
