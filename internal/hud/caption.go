package hud

import (
	"sort"
	"time"
)

// Caption is shown once progress reaches At.
type Caption struct {
	At   float64
	Text string
}

// Captions is sorted by ascending At.
type Captions []Caption

// Select returns the text of the last caption whose threshold does not
// exceed p, or "" when p is below the first threshold.
func (cs Captions) Select(p float64) string {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].At > p })
	if i == 0 {
		return ""
	}
	return cs[i-1].Text
}

// FadeDuration is how long a caption takes to fade out before it is swapped.
const FadeDuration = 300 * time.Millisecond

// Fader debounces caption changes: the old text fades out, then the new text
// replaces it and fades in.
type Fader struct {
	shown   string
	pending string
	swapAt  time.Time
}

// Set requests text. Repeating the current target is a no-op.
func (f *Fader) Set(text string, now time.Time) {
	if f.swapAt.IsZero() {
		if text == f.shown {
			return
		}
	} else if text == f.pending {
		return
	}
	if f.shown == "" {
		f.shown = text
		f.swapAt = time.Time{}
		return
	}
	f.pending = text
	f.swapAt = now.Add(FadeDuration)
}

// Text returns the caption visible at now and its opacity in [0, 1].
func (f *Fader) Text(now time.Time) (string, float64) {
	if f.swapAt.IsZero() {
		return f.shown, 1
	}
	if !now.Before(f.swapAt) {
		f.shown, f.pending = f.pending, ""
		f.swapAt = time.Time{}
		return f.shown, 1
	}
	left := f.swapAt.Sub(now)
	return f.shown, float64(left) / float64(FadeDuration)
}
