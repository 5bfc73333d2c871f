package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/scribadev/scriba/core"
	"github.com/scribadev/scriba/pages"
)

// PageImage is an image XObject pulled from a page's resources. For most
// filters Data holds decoded raster samples; for DCTDecode and JPXDecode the
// compressed payload is passed through untouched and IsEncodedImage reports
// true.
type PageImage struct {
	Name             string // XObject name (e.g., "Im1")
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, ...
	BitsPerComponent int
	Data             []byte
	Filter           string
}

// IsEncodedImage reports whether Data is a self-contained compressed image
// (JPEG or JPEG2000) rather than raw samples.
func (img *PageImage) IsEncodedImage() bool {
	return img.Filter == "DCTDecode" || img.Filter == "JPXDecode"
}

// ExtractPageImages collects every image XObject from a page's resource
// dictionary. XObjects that fail to resolve or decode are skipped.
func (r *Reader) ExtractPageImages(page *pages.Page) ([]PageImage, error) {
	resources, err := page.Resources()
	if err != nil || resources == nil {
		return nil, nil
	}

	xobjObj := resources.Get("XObject")
	if xobjObj == nil {
		return nil, nil
	}
	resolved, err := r.Resolve(xobjObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve XObject dictionary: %w", err)
	}
	xobjects, ok := resolved.(core.Dict)
	if !ok {
		return nil, nil
	}

	var images []PageImage
	for name, xobj := range xobjects {
		obj, err := r.Resolve(xobj)
		if err != nil {
			continue
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if subtype, ok := stream.Dict.GetName("Subtype"); !ok || subtype != "Image" {
			continue
		}

		img, err := r.extractImage(name, stream)
		if err != nil {
			continue
		}
		images = append(images, *img)
	}

	return images, nil
}

func (r *Reader) extractImage(name string, stream *core.Stream) (*PageImage, error) {
	width, wok := stream.Dict.GetInt("Width")
	height, hok := stream.Dict.GetInt("Height")
	if !wok || !hok {
		return nil, fmt.Errorf("image missing Width or Height")
	}

	bpc := 8
	if v, ok := stream.Dict.GetInt("BitsPerComponent"); ok {
		bpc = int(v)
	}

	colorSpace := "DeviceGray"
	if csObj := stream.Dict.Get("ColorSpace"); csObj != nil {
		colorSpace = r.parseColorSpace(csObj)
	}

	filter := imageFilter(stream.Dict)

	// Decode undoes every filter except DCT and JPX, which pass through
	// as complete JPEG/JPEG2000 payloads.
	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image stream: %w", err)
	}

	return &PageImage{
		Name:             name,
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       colorSpace,
		BitsPerComponent: bpc,
		Data:             data,
		Filter:           filter,
	}, nil
}

// imageFilter returns the last filter name, which determines the payload
// format after the preceding filters are undone.
func imageFilter(dict core.Dict) string {
	switch v := dict.Get("Filter").(type) {
	case core.Name:
		return string(v)
	case core.Array:
		if n, ok := v.GetName(v.Len() - 1); ok {
			return string(n)
		}
	}
	return ""
}

// parseColorSpace returns the family name of a color space object,
// unwrapping Indexed bases.
func (r *Reader) parseColorSpace(obj core.Object) string {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return "DeviceGray"
	}

	switch v := resolved.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		name, ok := v.GetName(0)
		if !ok {
			break
		}
		if name == "Indexed" && v.Len() > 1 {
			return r.parseColorSpace(v.Get(1))
		}
		return string(name)
	}

	return "DeviceGray"
}

// ToPNG renders the decoded samples as a PNG, suitable for handing to an
// OCR engine. Compressed payloads (see IsEncodedImage) are not converted.
func (img *PageImage) ToPNG() ([]byte, error) {
	if img.IsEncodedImage() {
		return nil, fmt.Errorf("image %s is %s-compressed, not raw samples", img.Name, img.Filter)
	}

	var goImg image.Image
	var err error
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		goImg, err = img.toRGBImage()
	case "DeviceCMYK":
		goImg, err = img.toCMYKImage()
	default:
		// DeviceGray, CalGray, ICCBased and anything unrecognized.
		goImg, err = img.toGrayImage()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (img *PageImage) toGrayImage() (*image.Gray, error) {
	switch img.BitsPerComponent {
	case 1:
		return img.toBilevelGray()
	case 4:
		return img.to4BitGray()
	case 8:
		goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		expected := img.Width * img.Height
		if len(img.Data) < expected {
			return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(img.Data), expected)
		}
		copy(goImg.Pix, img.Data[:expected])
		return goImg, nil
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", img.BitsPerComponent)
	}
}

// toBilevelGray expands 1-bit rows (MSB first, 0 = black) to 8-bit gray.
func (img *PageImage) toBilevelGray() (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	bytesPerRow := (img.Width + 7) / 8
	if len(img.Data) < bytesPerRow*img.Height {
		return nil, fmt.Errorf("insufficient data for 1-bit image: got %d, expected %d",
			len(img.Data), bytesPerRow*img.Height)
	}

	for y := 0; y < img.Height; y++ {
		row := img.Data[y*bytesPerRow:]
		for x := 0; x < img.Width; x++ {
			bit := (row[x/8] >> (7 - x%8)) & 1
			if bit == 0 {
				goImg.Pix[y*img.Width+x] = 0
			} else {
				goImg.Pix[y*img.Width+x] = 255
			}
		}
	}
	return goImg, nil
}

func (img *PageImage) to4BitGray() (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	bytesPerRow := (img.Width + 1) / 2
	if len(img.Data) < bytesPerRow*img.Height {
		return nil, fmt.Errorf("insufficient data for 4-bit image: got %d, expected %d",
			len(img.Data), bytesPerRow*img.Height)
	}

	for y := 0; y < img.Height; y++ {
		row := img.Data[y*bytesPerRow:]
		for x := 0; x < img.Width; x++ {
			nibble := row[x/2]
			if x%2 == 0 {
				nibble >>= 4
			}
			nibble &= 0x0F
			goImg.Pix[y*img.Width+x] = nibble * 17 // scale 0-15 to 0-255
		}
	}
	return goImg, nil
}

func (img *PageImage) toRGBImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.BitsPerComponent)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	expected := img.Width * img.Height * 3
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient data for RGB image: got %d, expected %d", len(img.Data), expected)
	}

	for i := 0; i < img.Width*img.Height; i++ {
		goImg.Pix[i*4+0] = img.Data[i*3+0]
		goImg.Pix[i*4+1] = img.Data[i*3+1]
		goImg.Pix[i*4+2] = img.Data[i*3+2]
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}

func (img *PageImage) toCMYKImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", img.BitsPerComponent)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	expected := img.Width * img.Height * 4
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient data for CMYK image: got %d, expected %d", len(img.Data), expected)
	}

	for i := 0; i < img.Width*img.Height; i++ {
		c, m, y, k := img.Data[i*4], img.Data[i*4+1], img.Data[i*4+2], img.Data[i*4+3]
		rr, gg, bb := color.CMYKToRGB(c, m, y, k)
		goImg.Pix[i*4+0] = rr
		goImg.Pix[i*4+1] = gg
		goImg.Pix[i*4+2] = bb
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}
