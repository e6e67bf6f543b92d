package visual

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == width || bounds.Dx() == 0 {
		return img
	}
	height := (bounds.Dy()*width + bounds.Dx()/2) / bounds.Dx()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, bounds, draw.Src, nil)
	return out
}

// CombineVertically scales both images to the wider of the two widths,
// keeping their aspect ratio, and stacks a on top of b over a white
// background.
func CombineVertically(a, b image.Image) *image.NRGBA {
	width := max(a.Bounds().Dx(), b.Bounds().Dx())
	top := scaleToWidth(a, width)
	bottom := scaleToWidth(b, width)

	topHeight := top.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, topHeight+bottom.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, width, topHeight), top, top.Bounds().Min, draw.Over)
	draw.Draw(out, image.Rect(0, topHeight, width, out.Bounds().Dy()), bottom, bottom.Bounds().Min, draw.Over)
	return out
}

// CombineFiles reads two pngs, combines them vertically and writes the
// result to out.
func CombineFiles(aPath, bPath, out string) error {
	a, err := ReadPNG(aPath)
	if err != nil {
		return err
	}
	b, err := ReadPNG(bPath)
	if err != nil {
		return err
	}
	return WritePNG(out, CombineVertically(a, b))
}
