package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gopxl/beep"

	"github.com/san-kum/pagefx/internal/quote"
)

// bufferedBody lets decoders seek within a downloaded quote.
type bufferedBody struct {
	*bytes.Reader
}

func (bufferedBody) Close() error { return nil }

// FetchDecoder loads quote sources over HTTP, resolving relative sources
// against base. In the browser the request goes through fetch.
func FetchDecoder(base *url.URL, client *http.Client) quote.Decoder {
	if client == nil {
		client = http.DefaultClient
	}
	return func(src string) (beep.StreamSeekCloser, beep.Format, error) {
		u, err := url.Parse(src)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("web: quote source %q: %w", src, err)
		}
		if base != nil {
			u = base.ResolveReference(u)
		}

		resp, err := client.Get(u.String())
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("web: fetch %s: %w", u, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, beep.Format{}, fmt.Errorf("web: fetch %s: %s", u, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("web: fetch %s: %w", u, err)
		}
		return quote.Decode(u.Path, bufferedBody{bytes.NewReader(data)})
	}
}
