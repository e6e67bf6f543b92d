package pages

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStyleSnapshotExpectDiffers(t *testing.T) {
	home := StyleSnapshot{
		Display:  "block",
		Clip:     "auto",
		ClipPath: "none",
		Width:    "320px",
		Height:   "18px",
	}
	thanks := StyleSnapshot{
		Display:  "block",
		Clip:     "rect(0px, 0px, 0px, 0px)",
		ClipPath: "inset(50%)",
		Width:    "1px",
		Height:   "1px",
	}

	require.NoError(t, home.ExpectDiffers(thanks, "clip", "clipPath", "width", "height"))
	require.Equal(t, []string{"display"}, home.SameKeys(thanks, StyleKeys...))

	err := home.ExpectDiffers(home, "clip", "width")
	require.EqualError(t, err, "expected styles to differ, but clip: both 'auto', width: both '320px'")
}

func TestStyleSnapshotString(t *testing.T) {
	s := StyleSnapshot{Display: "none", Clip: "auto", ClipPath: "none", Width: "0px", Height: "0px"}
	require.Equal(t, "display=none clip=auto clipPath=none width=0px height=0px", s.String())
}

func TestStyleSnapshotUnknownKey(t *testing.T) {
	require.Panics(t, func() {
		StyleSnapshot{}.Get("color")
	})
}
