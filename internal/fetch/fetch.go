// Package fetch reads input documents from standard input, local files and http(s) URLs.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Size limits to keep whole-document reads bounded
const (
	MaxFileSizeBytes = 50 * 1024 * 1024  // 50MB limit for files and stdin
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // 100MB limit for HTTP content (may not have Content-Length)
)

// HTTPRequestTimeout bounds a whole HTTP fetch
const HTTPRequestTimeout = 30 * time.Second

// timeout thresholds derived from HTTPRequestTimeout
var (
	HTTPDialTimeout           = HTTPRequestTimeout / 6
	HTTPTLSTimeout            = HTTPRequestTimeout / 6
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2
)

// DefaultUserAgent identifies textspan to remote servers
const DefaultUserAgent = "textspan/0.1"

// ErrTooLarge is returned when a source exceeds its size limit.
var ErrTooLarge = errors.New("content exceeds size limit")

// Document is a fully read input.
type Document struct {
	Source      string
	ContentType string   // media type without parameters, "" when unknown
	URL         *url.URL // set for http(s) sources
	Body        []byte
}

// IsHTML reports whether the document should go through HTML extraction.
func (d *Document) IsHTML() bool {
	switch d.ContentType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// Text returns the body as a string.
func (d *Document) Text() string {
	return string(d.Body)
}

// Fetcher reads documents. The zero value is not usable; call New.
type Fetcher struct {
	Client    *http.Client
	Stdin     io.Reader
	UserAgent string
	MaxFile   int64
	MaxHTTP   int64
}

// defaultClient is shared and safe for concurrent use.
var defaultClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
		DisableKeepAlives:     true,
	},
}

// New returns a Fetcher with the default client, limits and stdin.
func New() *Fetcher {
	return &Fetcher{
		Client:    defaultClient,
		Stdin:     os.Stdin,
		UserAgent: DefaultUserAgent,
		MaxFile:   MaxFileSizeBytes,
		MaxHTTP:   MaxHTTPSizeBytes,
	}
}

// Fetch reads source completely. It supports three kinds of sources:
//   - "-" reads from standard input
//   - URLs starting with "http://" or "https://" are fetched via HTTP
//   - everything else is treated as a local file path
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Document, error) {
	switch {
	case source == "-":
		return f.fetchStdin()
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return f.fetchURL(ctx, source)
	default:
		return f.fetchFile(source)
	}
}

func (f *Fetcher) fetchStdin() (*Document, error) {
	body, err := readLimited(f.Stdin, f.MaxFile, "stdin")
	if err != nil {
		return nil, err
	}
	return &Document{Source: "-", ContentType: sniff(body), Body: body}, nil
}

// fetchURL retrieves an HTTP or HTTPS URL; ctx cancels the request.
func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", rawURL, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > f.MaxHTTP {
			return nil, fmt.Errorf("HTTP content from %q too large (%d bytes > %d bytes limit): %w",
				rawURL, size, f.MaxHTTP, ErrTooLarge)
		}
	}

	body, err := readLimited(resp.Body, f.MaxHTTP, rawURL)
	if err != nil {
		return nil, err
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = sniff(body)
	}
	return &Document{Source: rawURL, ContentType: contentType, URL: u, Body: body}, nil
}

// fetchFile reads a local file, checking its size before reading.
func (f *Fetcher) fetchFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	if info.Size() > f.MaxFile {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit): %w",
			path, info.Size(), f.MaxFile, ErrTooLarge)
	}

	// #nosec G304 - reading user-named input files is the point
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	contentType := mediaType(mime.TypeByExtension(filepath.Ext(path)))
	if contentType == "" {
		contentType = sniff(body)
	}
	return &Document{Source: path, ContentType: contentType, Body: body}, nil
}

// readLimited reads r fully, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64, source string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("content from %q exceeds %d bytes: %w", source, limit, ErrTooLarge)
	}
	return body, nil
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

func sniff(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	return mediaType(http.DetectContentType(body))
}
