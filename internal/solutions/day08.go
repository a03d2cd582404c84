package solutions

import (
	"fmt"
	"strings"

	"github.com/example/aoc2019/internal/puzzle"
)

// Space Image Format frame size.
const (
	imageWidth  = 25
	imageHeight = 6
)

func init() {
	puzzle.Register(8, puzzle.Solution{
		Title: "Space Image Format",
		Part1: day8Part1,
		Part2: day8Part2,
	})
}

func day8Part1(input string) (string, error) {
	layers, err := imageLayers(strings.TrimSpace(input), imageWidth, imageHeight)
	if err != nil {
		return "", err
	}
	return itoa(imageChecksum(layers)), nil
}

func day8Part2(input string) (string, error) {
	layers, err := imageLayers(strings.TrimSpace(input), imageWidth, imageHeight)
	if err != nil {
		return "", err
	}
	return renderImage(layers, imageWidth, imageHeight), nil
}

func imageLayers(data string, width, height int) ([]string, error) {
	size := width * height
	if len(data) == 0 || len(data)%size != 0 {
		return nil, fmt.Errorf("image data length %d is not a multiple of %dx%d", len(data), width, height)
	}
	layers := make([]string, 0, len(data)/size)
	for i := 0; i < len(data); i += size {
		layers = append(layers, data[i:i+size])
	}
	return layers, nil
}

// imageChecksum finds the layer with the fewest zeros and multiplies
// its one and two counts.
func imageChecksum(layers []string) int {
	bestZeros := -1
	checksum := 0
	for _, layer := range layers {
		zeros := strings.Count(layer, "0")
		if bestZeros < 0 || zeros < bestZeros {
			bestZeros = zeros
			checksum = strings.Count(layer, "1") * strings.Count(layer, "2")
		}
	}
	return checksum
}

// renderImage stacks the layers, 2 being transparent, and draws white
// pixels as '#'.
func renderImage(layers []string, width, height int) string {
	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			i := y*width + x
			pixel := byte('2')
			for _, layer := range layers {
				if layer[i] != '2' {
					pixel = layer[i]
					break
				}
			}
			if pixel == '1' {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}
