package retile

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
	"github.com/valyala/fasthttp"
	_ "golang.org/x/image/webp"
)

const defaultUserAgent = "retile/1.0"

// TileSource fetches tiles from a web map server. The URL template uses
// {z}, {x} and {y}, and {s} for an a/b/c subdomain.
type TileSource struct {
	template  string
	client    *fasthttp.Client
	userAgent string
}

// NewTileSource creates a tile source. A nil client gets a default one.
func NewTileSource(template string, client *fasthttp.Client) *TileSource {
	if client == nil {
		client = &fasthttp.Client{}
	}
	return &TileSource{
		template:  template,
		client:    client,
		userAgent: defaultUserAgent,
	}
}

// SetUserAgent sets the User-Agent header sent with every request
func (s *TileSource) SetUserAgent(ua string) {
	if ua != "" {
		s.userAgent = ua
	}
}

// URL expands the template for t.
func (s *TileSource) URL(t maptile.Tile) string {
	url := s.template
	url = strings.ReplaceAll(url, "{z}", strconv.FormatUint(uint64(t.Z), 10))
	url = strings.ReplaceAll(url, "{x}", strconv.FormatUint(uint64(t.X), 10))
	url = strings.ReplaceAll(url, "{y}", strconv.FormatUint(uint64(t.Y), 10))
	if strings.Contains(url, "{s}") {
		url = strings.ReplaceAll(url, "{s}", string(rune('a'+(t.X+t.Y)%3)))
	}
	return url
}

// FetchBytes downloads the encoded tile t. A 404 is reported as
// ErrTileNotFound. The context deadline, if any, bounds the request.
func (s *TileSource) FetchBytes(ctx context.Context, t maptile.Tile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	url := s.URL(t)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(s.userAgent)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.Do(req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	switch code := resp.StatusCode(); code {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound, fasthttp.StatusNoContent:
		return nil, fmt.Errorf("%w: %v", ErrTileNotFound, t)
	default:
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", url, code)
	}

	// Copy body since response will be released
	body := resp.Body()
	result := make([]byte, len(body))
	copy(result, body)
	return result, nil
}

// Fetch downloads and decodes tile t.
func (s *TileSource) Fetch(ctx context.Context, t maptile.Tile) (*Buffer, error) {
	data, err := s.FetchBytes(ctx, t)
	if err != nil {
		return nil, err
	}
	b, err := DecodeTile(data)
	if err != nil {
		return nil, fmt.Errorf("tile %v: %w", t, err)
	}
	return b, nil
}

// DecodeTile decodes a PNG, JPEG or WebP tile.
func DecodeTile(data []byte) (*Buffer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode tile: %w", err)
	}
	return BufferFromImage(img), nil
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG writes b as a non-premultiplied PNG.
func EncodePNG(w io.Writer, b *Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return pngEncoder.Encode(w, b.ToNRGBA())
}
