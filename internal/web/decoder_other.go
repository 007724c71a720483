//go:build !js

package web

import "github.com/san-kum/pagefx/internal/quote"

func defaultDecoder() quote.Decoder { return quote.DecodeFile }
