package pages

import (
	"fmt"
	"strings"
)

// StyleSnapshot is the subset of an element's computed style that decides
// whether it is actually rendered, visually hidden elements keep
// `display` but are clipped down to nothing.
type StyleSnapshot struct {
	Display  string `json:"display"`
	Clip     string `json:"clip"`
	ClipPath string `json:"clipPath"`
	Width    string `json:"width"`
	Height   string `json:"height"`
}

// StyleKeys are the keys of a StyleSnapshot in a stable order.
var StyleKeys = []string{"display", "clip", "clipPath", "width", "height"}

func (s StyleSnapshot) Get(key string) string {
	switch key {
	case "display":
		return s.Display
	case "clip":
		return s.Clip
	case "clipPath":
		return s.ClipPath
	case "width":
		return s.Width
	case "height":
		return s.Height
	}
	panic(fmt.Sprintf("unknown style key '%s'", key))
}

// SameKeys returns the keys out of keys that hold the same value in both
// snapshots.
func (s StyleSnapshot) SameKeys(other StyleSnapshot, keys ...string) []string {
	var same []string
	for _, k := range keys {
		if s.Get(k) == other.Get(k) {
			same = append(same, k)
		}
	}
	return same
}

// ExpectDiffers returns an error naming every key in keys whose value is
// the same in both snapshots.
func (s StyleSnapshot) ExpectDiffers(other StyleSnapshot, keys ...string) error {
	same := s.SameKeys(other, keys...)
	if len(same) == 0 {
		return nil
	}
	lines := make([]string, len(same))
	for i, k := range same {
		lines[i] = fmt.Sprintf("%s: both '%s'", k, s.Get(k))
	}
	return fmt.Errorf("expected styles to differ, but %s", strings.Join(lines, ", "))
}

func (s StyleSnapshot) String() string {
	parts := make([]string, len(StyleKeys))
	for i, k := range StyleKeys {
		parts[i] = fmt.Sprintf("%s=%s", k, s.Get(k))
	}
	return strings.Join(parts, " ")
}
