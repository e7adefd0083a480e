package generativeAI

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
)

var errNotDataURI = errors.New("not a base64 data URI")

// decodeDataURI splits "data:<mime>;base64,<payload>" into its mime type and bytes.
func decodeDataURI(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, errNotDataURI
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URI payload: %w", err)
	}
	return mime, data, nil
}

func encodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// prepareScreenshots downscales decodable screenshots whose longest side exceeds maxDim.
// maxDim <= 0 returns the input untouched. Order is preserved and nothing is dropped.
func prepareScreenshots(screens []string, maxDim int, logger *slog.Logger) []string {
	if maxDim <= 0 || len(screens) == 0 {
		return screens
	}
	out := make([]string, len(screens))
	for i, s := range screens {
		resized, err := downscale(s, maxDim)
		if err != nil {
			logger.Debug("Forwarding screenshot as-is", slog.Int("index", i), slog.Any("error", err))
			out[i] = s
			continue
		}
		out[i] = resized
	}
	return out
}

func downscale(s string, maxDim int) (string, error) {
	_, data, err := decodeDataURI(s)
	if err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return s, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	return encodeDataURI("image/jpeg", buf.Bytes()), nil
}
