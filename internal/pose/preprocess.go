package pose

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// ErrDecode marks uploads that could not be decoded as an image.
var ErrDecode = errors.New("image decode failed")

// Preprocess decodes data, forces RGB and resizes straight to width x height
// (aspect ratio is not preserved). The result has shape (1, height, width, 3).
func Preprocess(data []byte, width, height int) (ImageTensor, error) {
	if width <= 0 || height <= 0 {
		return ImageTensor{}, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return ImageTensor{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	resized := imaging.Resize(img, width, height, imaging.CatmullRom)

	out := ImageTensor{
		Shape: [4]int64{1, int64(height), int64(width), 3},
		Data:  make([]int32, height*width*3),
	}
	// NRGBA stores straight alpha; dropping the fourth byte matches an RGB conversion.
	for y := 0; y < height; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+width*4]
		base := y * width * 3
		for x := 0; x < width; x++ {
			out.Data[base+x*3] = int32(row[x*4])
			out.Data[base+x*3+1] = int32(row[x*4+1])
			out.Data[base+x*3+2] = int32(row[x*4+2])
		}
	}
	return out, nil
}
