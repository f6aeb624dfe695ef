package main

import (
	"bytes"
	"image/png"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"bluedisplay/internal/capture"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/session"
)

var file = flag.String("file", "", "capture file to replay")
var width = flag.Int("width", 320, "canvas width")
var height = flag.Int("height", 240, "canvas height")
var out = flag.String("out", "replay.png", "snapshot output")
var zoom = flag.Int("zoom", 1, "snapshot scale factor")
var chunk = flag.Int("chunk", 64, "bytes per decode pass")
var verbose = flag.Bool("verbose", false, "debug logging")

// Replays a captured client byte stream through the full interpreter and
// writes the resulting canvas as an image.
func main() {
	flag.Parse()

	if *file == "" {
		log.Fatal("need a capture file")
	}

	logger, _ := zap.NewProduction()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}

	fs := afero.NewOsFs()
	data, err := capture.Load(fs, *file)
	if err != nil {
		log.Fatal(err)
	}

	conn := struct {
		io.Reader
		io.Writer
	}{bytes.NewReader(nil), io.Discard}

	s := session.New(conn, *width, *height, logger)

	bar := progressbar.DefaultBytes(int64(len(data)), "replaying")
	for pos := 0; pos < len(data); pos += *chunk {
		end := pos + *chunk
		if end > len(data) {
			end = len(data)
		}
		s.Framer.Feed(data[pos:end])
		for {
			cmd, res := s.Framer.Next()
			if res != proto.Decoded {
				break
			}
			s.Dispatcher.Dispatch(cmd)
		}
		_ = bar.Add(end - pos)
	}

	snap := s.Canvas.Snapshot()
	if z := *zoom; z > 1 {
		b := snap.Bounds()
		snap = imaging.Resize(snap, b.Dx()*z, b.Dy()*z, imaging.NearestNeighbor)
	}

	f, err := fs.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, snap); err != nil {
		log.Fatal(err)
	}
	logger.Info("snapshot written", zap.String("out", *out))
}
