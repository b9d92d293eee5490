package aeno

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ProgressFunc receives the bytes read so far and the expected total.
// total is -1 when the size is unknown.
type ProgressFunc func(loaded, total int64)

// AssetClient fetches http(s) assets. Loads never time out.
var AssetClient = &http.Client{}

// IsURL reports whether path should be fetched over HTTP
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// OpenAsset opens a local file or an http(s) URL and returns its size when known
func OpenAsset(path string) (io.ReadCloser, int64, error) {
	if IsURL(path) {
		resp, err := AssetClient.Get(path)
		if err != nil {
			return nil, 0, fmt.Errorf("aeno: fetch %s: %w", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("aeno: fetch %s: %s", path, resp.Status)
		}
		return resp.Body, resp.ContentLength, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	total := int64(-1)
	if info, err := file.Stat(); err == nil {
		total = info.Size()
	}
	return file, total, nil
}

type ProgressReader struct {
	r        io.Reader
	loaded   int64
	total    int64
	progress ProgressFunc
}

// NewProgressReader wraps r, calling progress after every read that returns data
func NewProgressReader(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil {
		return r
	}
	return &ProgressReader{r: r, total: total, progress: progress}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.progress(p.loaded, p.total)
	}
	return n, err
}
