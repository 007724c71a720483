//go:build !js

package quote

import (
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
)

// flac pulls in a terminal package that does not build for the browser.
func init() {
	decoders[".flac"] = func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(rc) }
}
