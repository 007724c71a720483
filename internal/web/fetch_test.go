package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

func wavBytes(t *testing.T, n int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "q.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, constant(n, 0.1), beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}); err != nil {
		t.Fatal(err)
	}
	f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestFetchDecoderResolvesAgainstPage(t *testing.T) {
	data := wavBytes(t, 300)
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		if r.URL.Path != "/site/quotes/q1.wav" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/site/index.html")
	if err != nil {
		t.Fatal(err)
	}
	decode := FetchDecoder(base, srv.Client())

	s, format, err := decode("quotes/q1.wav")
	if err != nil {
		t.Fatalf("decode: %v (requested %s)", err, requested)
	}
	defer s.Close()
	if format.SampleRate != 22050 || s.Len() != 300 {
		t.Errorf("format %+v, len %d", format, s.Len())
	}
	// the body is buffered, so rewinding works
	if err := s.Seek(0); err != nil {
		t.Errorf("seek: %v", err)
	}

	if _, _, err := decode("quotes/missing.wav"); err == nil {
		t.Error("expected error for a 404")
	}
}
