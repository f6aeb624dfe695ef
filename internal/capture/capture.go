package capture

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Capture files are the raw client byte stream, nothing framed around it,
// so a replay feeds them straight into the decoder.

func NewWriter(fs afero.Fs, path string) (*Writer, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create capture file")
	}
	return &Writer{f: f}, nil
}

// Writer tees received bytes into a capture file.
type Writer struct {
	f afero.File
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *Writer) Close() error {
	return w.f.Close()
}

// Tee wraps a reader so everything read is also captured.
func Tee(r io.Reader, w *Writer) io.Reader {
	return io.TeeReader(r, w)
}

// Load reads a whole capture.
func Load(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read capture file")
	}
	return data, nil
}
