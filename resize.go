package htmlpng

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

var vipsInitOnce sync.Once

func initVips() {
	vipsInitOnce.Do(func() {
		vips.LoggingSettings(nil, vips.LogLevelError)
		vips.Startup(&vips.Config{
			ConcurrencyLevel: 1,
			MaxCacheFiles:    0,
			MaxCacheMem:      0,
			MaxCacheSize:     0,
		})
	})
}

type ResizeParams struct {
	Width       int
	Height      int
	KeepAspect  bool
	Percentage  bool
	AutoCrop    bool // centered cropping
	Crop        bool
	CropOffsetX int
	CropOffsetY int
}

// parseResizeString parses WxH, Wx, xH, WxH!, WxH#, WxH^, P%xP%, WxH+X+Y and
// WxH_X_Y
func parseResizeString(resize string) (*ResizeParams, error) {
	params := &ResizeParams{
		KeepAspect: true,
	}

	if strings.Contains(resize, "%") {
		params.Percentage = true
		resize = strings.ReplaceAll(resize, "%", "")
	}

	// + and _ are both accepted as crop offset separators
	var cropSeparator string
	if strings.Contains(resize, "+") {
		cropSeparator = "+"
	} else if strings.Contains(resize, "_") {
		cropSeparator = "_"
	}

	if cropSeparator != "" {
		parts := strings.Split(resize, cropSeparator)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid crop offset format")
		}
		resize = parts[0]
		x, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid crop offset X")
		}
		y, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid crop offset Y")
		}
		params.CropOffsetX = x
		params.CropOffsetY = y
		params.Crop = true
	}

	if strings.HasSuffix(resize, "!") {
		params.KeepAspect = false
		resize = strings.TrimSuffix(resize, "!")
	}

	if strings.HasSuffix(resize, "#") {
		params.AutoCrop = true
		resize = strings.TrimSuffix(resize, "#")
	} else if strings.HasSuffix(resize, "^") {
		params.AutoCrop = true
		resize = strings.TrimSuffix(resize, "^")
	}

	dimensions := strings.Split(resize, "x")
	if len(dimensions) != 2 {
		return nil, fmt.Errorf("invalid resize format")
	}

	if dimensions[0] != "" {
		width, err := strconv.Atoi(dimensions[0])
		if err != nil || width < 0 {
			return nil, fmt.Errorf("invalid width")
		}
		params.Width = width
	}

	if dimensions[1] != "" {
		height, err := strconv.Atoi(dimensions[1])
		if err != nil || height < 0 {
			return nil, fmt.Errorf("invalid height")
		}
		params.Height = height
	}

	if params.Width == 0 && params.Height == 0 {
		return nil, fmt.Errorf("resize needs a width or a height")
	}
	if (params.Crop || params.AutoCrop || !params.KeepAspect) && (params.Width == 0 || params.Height == 0) {
		return nil, fmt.Errorf("crop and exact resize need both width and height")
	}

	return params, nil
}

// targetSize computes the requested size in pixels for a source image
func (p *ResizeParams) targetSize(width, height int) (int, int) {
	if p.Percentage {
		return width * p.Width / 100, height * p.Height / 100
	}
	return p.Width, p.Height
}

// cropArea is the rectangle cut out by an offset crop. Percentage sizes are
// relative to the source image, offsets are always pixels.
func (p *ResizeParams) cropArea(width, height int) (left, top, cropWidth, cropHeight int) {
	cropWidth, cropHeight = p.targetSize(width, height)
	return p.CropOffsetX, p.CropOffsetY, cropWidth, cropHeight
}

// scaleRatio is the uniform scale used when the aspect ratio is kept
func (p *ResizeParams) scaleRatio(width, height int) float64 {
	targetWidth, targetHeight := p.targetSize(width, height)

	if targetWidth == 0 {
		return float64(targetHeight) / float64(height)
	}
	if targetHeight == 0 {
		return float64(targetWidth) / float64(width)
	}

	widthRatio := float64(targetWidth) / float64(width)
	heightRatio := float64(targetHeight) / float64(height)
	if p.AutoCrop {
		return math.Max(widthRatio, heightRatio)
	}
	return math.Min(widthRatio, heightRatio)
}

// resizeImage applies params to a PNG and returns a PNG
func resizeImage(buf []byte, params *ResizeParams) ([]byte, error) {
	initVips()

	image, err := vips.NewImageFromBuffer(buf)
	if err != nil {
		return nil, err
	}
	defer image.Close()

	if params.Crop {
		// manual cropping, no scaling takes place
		left, top, width, height := params.cropArea(image.Width(), image.Height())
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("invalid crop area")
		}
		if err := image.ExtractArea(left, top, width, height); err != nil {
			return nil, err
		}
	} else {
		width := image.Width()
		height := image.Height()

		if params.KeepAspect {
			scale := params.scaleRatio(width, height)
			if scale <= 0 {
				return nil, fmt.Errorf("invalid scale ratio")
			}
			if err := image.Resize(scale, vips.KernelAuto); err != nil {
				return nil, err
			}
		} else {
			targetWidth, targetHeight := params.targetSize(width, height)
			widthScale := float64(targetWidth) / float64(width)
			heightScale := float64(targetHeight) / float64(height)
			if widthScale <= 0 || heightScale <= 0 {
				return nil, fmt.Errorf("invalid scale ratio")
			}
			if err := image.ResizeWithVScale(widthScale, heightScale, vips.KernelAuto); err != nil {
				return nil, err
			}
		}

		if params.AutoCrop {
			targetWidth, targetHeight := params.targetSize(width, height)
			left := (image.Width() - targetWidth) / 2
			top := (image.Height() - targetHeight) / 2
			if err := image.ExtractArea(left, top, targetWidth, targetHeight); err != nil {
				return nil, err
			}
		}
	}

	exportParams := vips.NewPngExportParams()
	exportParams.Compression = 6
	out, _, err := image.ExportPng(exportParams)
	return out, err
}

// applyResize resizes data when spec is not empty
func applyResize(data []byte, spec string) ([]byte, error) {
	if spec == "" {
		return data, nil
	}

	params, err := parseResizeString(spec)
	if err != nil {
		return nil, engineErr("resize", fmt.Errorf("invalid resize parameters: %v", err))
	}

	resized, err := resizeImage(data, params)
	if err != nil {
		return nil, engineErr("resize", err)
	}
	return resized, nil
}
