// internal/metrics/ssim.go
package metrics

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"

	_ "image/jpeg"
	_ "image/png"
)

// SSIM stabilization constants for 8-bit dynamic range.
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)
)

// DirectorySSIM computes the mean structural similarity between images in two
// directories, pairing files by name. It returns the aggregate, the number of
// pairs compared, and an error when no pair could be formed.
func DirectorySSIM(dirA, dirB string) (float64, int, error) {
	imagesA, err := ListImages(dirA)
	if err != nil {
		return 0, 0, err
	}
	imagesB, err := ListImages(dirB)
	if err != nil {
		return 0, 0, err
	}

	byName := make(map[string]string, len(imagesB))
	for _, path := range imagesB {
		byName[filepath.Base(path)] = path
	}

	var scores []float64
	for _, pathA := range imagesA {
		pathB, ok := byName[filepath.Base(pathA)]
		if !ok {
			continue
		}
		score, err := fileSSIM(pathA, pathB)
		if err != nil {
			return 0, 0, err
		}
		scores = append(scores, score)
	}

	if len(scores) == 0 {
		return 0, 0, fmt.Errorf("no image pairs between %s and %s", dirA, dirB)
	}
	return stat.Mean(scores, nil), len(scores), nil
}

// ListImages returns the image files in dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

func fileSSIM(pathA, pathB string) (float64, error) {
	imgA, err := decodeImage(pathA)
	if err != nil {
		return 0, err
	}
	imgB, err := decodeImage(pathB)
	if err != nil {
		return 0, err
	}
	return ImageSSIM(imgA, imgB), nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// ImageSSIM computes a global grayscale SSIM between two images. Images with
// differing bounds are rescaled to the first image's size. The comparison is
// symmetric and identical images score 1.
func ImageSSIM(a, b image.Image) float64 {
	grayA := toGray(a)
	grayB := toGray(b)
	if !grayA.Bounds().Eq(grayB.Bounds()) {
		grayB = rescale(grayB, grayA.Bounds())
	}

	meanA := grayMean(grayA)
	meanB := grayMean(grayB)

	var varA, varB, cov float64
	bounds := grayA.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dA := float64(grayA.GrayAt(x, y).Y) - meanA
			dB := float64(grayB.GrayAt(x, y).Y) - meanB
			varA += dA * dA
			varB += dB * dB
			cov += dA * dB
		}
	}
	n := float64(bounds.Dx() * bounds.Dy())
	varA /= n
	varB /= n
	cov /= n

	numerator := (2*meanA*meanB + ssimC1) * (2*cov + ssimC2)
	denominator := (meanA*meanA + meanB*meanB + ssimC1) * (varA + varB + ssimC2)
	return numerator / denominator
}

func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

func rescale(img *image.Gray, bounds image.Rectangle) *image.Gray {
	scaled := image.NewGray(bounds)
	draw.ApproxBiLinear.Scale(scaled, bounds, img, img.Bounds(), draw.Src, nil)
	return scaled
}

func grayMean(img *image.Gray) float64 {
	var sum float64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += float64(img.GrayAt(x, y).Y)
		}
	}
	return sum / float64(bounds.Dx()*bounds.Dy())
}
