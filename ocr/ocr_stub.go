//go:build !ocr

// Package ocr recognizes text in page images, recovering content from
// scanned documents that carry no text layer.
//
// This is the stub compiled into default builds. New always fails with
// ErrNotEnabled, so callers degrade gracefully. Rebuild with -tags ocr
// (and Tesseract installed) for working recognition.
package ocr

import "errors"

// ErrNotEnabled reports that the binary was built without OCR support.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is the stub recognition client. It cannot be constructed; every
// method exists only to keep the package API identical across build tags.
type Client struct{}

// New fails with ErrNotEnabled.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}

// SetLanguage fails with ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}

// RecognizeImage fails with ErrNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}
