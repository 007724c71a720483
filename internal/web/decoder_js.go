//go:build js

package web

import (
	"net/url"
	"syscall/js"

	"github.com/san-kum/pagefx/internal/quote"
)

// defaultDecoder fetches quotes relative to the page that loaded the wasm.
func defaultDecoder() quote.Decoder {
	base, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		base = nil
	}
	return FetchDecoder(base, nil)
}
