package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"bluedisplay/internal/capture"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/session"
)

var port = flag.String("port", "ttyUSB", "serial name substring")
var baud = flag.Int("baud", 115200, "baud rate")
var width = flag.Int("width", 320, "canvas width")
var height = flag.Int("height", 240, "canvas height")
var scale = flag.Float64("scale", 1, "input scale factor")
var captureTo = flag.String("capture", "", "write received bytes to file")
var verbose = flag.Bool("verbose", false, "debug logging")

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			newLogger,
			newSerial,
			newSession,
		),
		fx.Invoke(run),
	).Run()
}

func newLogger() (*zap.Logger, error) {
	if *verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newSerial(logger *zap.Logger) (*proto.Serial, error) {
	s := proto.NewSerial(*port)
	if err := s.Open(&proto.Options{
		DTR:         true,
		RTS:         true,
		BaudRate:    *baud,
		ReadTimeout: 20 * time.Millisecond,
	}); err != nil {
		return nil, err
	}
	logger.Info("serial opened", zap.String("port", *port), zap.Int("baud", *baud))
	return s, nil
}

func newSession(serial *proto.Serial, logger *zap.Logger) (*session.Session, error) {
	var conn io.ReadWriter = serial

	if *captureTo != "" {
		w, err := capture.NewWriter(afero.NewOsFs(), *captureTo)
		if err != nil {
			return nil, err
		}
		conn = struct {
			io.Reader
			io.Writer
		}{capture.Tee(serial, w), serial}
	}

	s := session.New(conn, *width, *height, logger)
	s.Router.ScaleFactor = *scale
	return s, nil
}

func run(lc fx.Lifecycle, stop fx.Shutdowner, s *session.Session, serial *proto.Serial, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := s.Run(ctx); err != nil && err != context.Canceled {
					logger.Error("session ended", zap.Error(err))
				}
				_ = stop.Shutdown()
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return serial.Close()
		},
	})
}
