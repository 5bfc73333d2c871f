//go:build ocr

// Package ocr recognizes text in page images, recovering content from
// scanned documents that carry no text layer.
//
// The implementation wraps the Tesseract engine via gosseract and needs
// Tesseract installed on the system (apt-get install tesseract-ocr, or
// brew install tesseract). It is only compiled in with the "ocr" build
// tag; default builds get a stub whose constructor fails, which callers
// treat as OCR being unavailable.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client runs recognition through a Tesseract session. Close it to release
// the engine.
type Client struct {
	engine *gosseract.Client
}

// New starts a Tesseract session with the default language (English).
func New() (*Client, error) {
	return &Client{engine: gosseract.NewClient()}, nil
}

// Close releases the Tesseract session. Safe to call more than once.
func (c *Client) Close() error {
	if c.engine == nil {
		return nil
	}
	err := c.engine.Close()
	c.engine = nil
	return err
}

// SetLanguage selects the recognition language(s), "+"-separated for
// multiple, e.g. "eng+fra".
func (c *Client) SetLanguage(lang string) error {
	return c.engine.SetLanguage(lang)
}

// RecognizeImage runs OCR over encoded image data (PNG, JPEG, TIFF) and
// returns the recognized text, trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.engine.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}
	text, err := c.engine.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing image: %w", err)
	}
	return strings.TrimSpace(text), nil
}
