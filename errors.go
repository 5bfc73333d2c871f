package scriba

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/scribadev/scriba/crypt"
	"github.com/scribadev/scriba/reader"
)

// Sentinel errors returned by the facade. Every failure from the underlying
// pipeline is mapped onto exactly one of these; match with errors.Is.
var (
	// ErrFileNotFound indicates the input path does not exist or cannot
	// be read.
	ErrFileNotFound = errors.New("file not found")

	// ErrNotPDF indicates the input carries no PDF header.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrMalformedSyntax indicates unrecoverable lexical or object-level
	// corruption.
	ErrMalformedSyntax = errors.New("malformed PDF syntax")

	// ErrCorruptStructure indicates the document skeleton (xref, catalog,
	// page tree) is unusable even after the recovery scan.
	ErrCorruptStructure = errors.New("corrupt document structure")

	// ErrUnsupportedFeature indicates the document depends on a feature
	// outside this library's scope.
	ErrUnsupportedFeature = errors.New("unsupported PDF feature")

	// ErrEncodingFailure indicates output serialization failed.
	ErrEncodingFailure = errors.New("output encoding failure")

	// ErrEncrypted indicates the document requires a password and none
	// was supplied.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrInvalidPassword indicates the supplied password failed to
	// authenticate.
	ErrInvalidPassword = errors.New("invalid password")
)

// mapError folds an internal error into the facade's error taxonomy,
// keeping the original message as context.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrFileNotFound, err)
	case errors.Is(err, reader.ErrNotPDF):
		return fmt.Errorf("%w: %v", ErrNotPDF, err)
	case errors.Is(err, reader.ErrCorruptStructure):
		return fmt.Errorf("%w: %v", ErrCorruptStructure, err)
	case errors.Is(err, crypt.ErrUnsupportedScheme):
		return fmt.Errorf("%w: %v", ErrUnsupportedFeature, err)
	case errors.Is(err, reader.ErrEncrypted):
		return fmt.Errorf("%w: %v", ErrEncrypted, err)
	case errors.Is(err, reader.ErrInvalidPassword):
		return fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	// Already a facade sentinel.
	for _, sentinel := range []error{
		ErrFileNotFound, ErrNotPDF, ErrMalformedSyntax, ErrCorruptStructure,
		ErrUnsupportedFeature, ErrEncodingFailure, ErrEncrypted, ErrInvalidPassword,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", ErrMalformedSyntax, err)
}

// Warning records a non-fatal anomaly encountered during extraction. The
// pipeline keeps going past these; they are reported so callers can judge
// output completeness.
type Warning struct {
	// Page is the 1-indexed page the warning applies to, or 0 for
	// document-level warnings.
	Page int

	// Message describes the anomaly.
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
