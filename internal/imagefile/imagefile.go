package imagefile

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// Accepted content types.
const (
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeWEBP = "image/webp"
)

var (
	ErrEmpty           = errors.New("imagefile: empty file")
	ErrUnsupportedType = errors.New("imagefile: unsupported content type")
	ErrUndecodable     = errors.New("imagefile: not a decodable image")
)

// formats maps each accepted content type to the name image.DecodeConfig reports.
var formats = map[string]string{
	TypePNG:  "png",
	TypeJPEG: "jpeg",
	TypeWEBP: "webp",
}

// ImageFile is an uploaded image held as base64 text together with the
// content type it was declared with. The zero value means "no image".
type ImageFile struct {
	payload  string
	mimeType string
}

// Read consumes r and converts it into an ImageFile. declaredType is the type
// reported by the uploader; when it is missing or generic the type is sniffed
// from the content.
func Read(ctx context.Context, r io.Reader, declaredType string) (ImageFile, error) {
	if err := ctx.Err(); err != nil {
		return ImageFile{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ImageFile{}, fmt.Errorf("imagefile: read: %w", err)
	}
	if len(data) == 0 {
		return ImageFile{}, ErrEmpty
	}

	contentType := NormalizeType(declaredType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = NormalizeType(mimetype.Detect(data).String())
	}
	format, ok := formats[contentType]
	if !ok {
		return ImageFile{}, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	_, got, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageFile{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if got != format {
		return ImageFile{}, fmt.Errorf("%w: declared %s but content is %s", ErrUndecodable, contentType, got)
	}
	return New(data, contentType), nil
}

// New wraps raw bytes without validating them.
func New(data []byte, mimeType string) ImageFile {
	return ImageFile{
		payload:  base64.StdEncoding.EncodeToString(data),
		mimeType: mimeType,
	}
}

// FromBase64 wraps an already encoded payload, rejecting invalid base64.
func FromBase64(payload, mimeType string) (ImageFile, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ImageFile{}, ErrEmpty
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return ImageFile{}, fmt.Errorf("imagefile: decode base64: %w", err)
	}
	return ImageFile{payload: payload, mimeType: NormalizeType(mimeType)}, nil
}

// FromDataURL parses a "data:<type>;base64,<payload>" string.
func FromDataURL(s string) (ImageFile, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return ImageFile{}, errors.New("imagefile: not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return ImageFile{}, errors.New("imagefile: malformed data url")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return ImageFile{}, errors.New("imagefile: data url is not base64 encoded")
	}
	return FromBase64(payload, mimeType)
}

// NormalizeType lowercases a content type and strips its parameters.
func NormalizeType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = parsed
	}
	contentType = strings.ToLower(contentType)
	if contentType == "image/jpg" || contentType == "image/pjpeg" {
		return TypeJPEG
	}
	return contentType
}

// Accepted reports whether the content type can be read by this package.
func Accepted(contentType string) bool {
	_, ok := formats[NormalizeType(contentType)]
	return ok
}

func (f ImageFile) IsZero() bool { return f.payload == "" }

func (f ImageFile) Base64() string { return f.payload }

func (f ImageFile) MIMEType() string { return f.mimeType }

// Bytes decodes the payload back to the original file content.
func (f ImageFile) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(f.payload)
}

// DataURL renders the image as a data URL usable directly as an img source.
func (f ImageFile) DataURL() string {
	if f.IsZero() {
		return ""
	}
	return "data:" + f.mimeType + ";base64," + f.payload
}
