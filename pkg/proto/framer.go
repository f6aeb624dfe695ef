package proto

import (
	"encoding/binary"
	"time"

	"go.uber.org/zap"
)

// Command is one decoded client frame, with its data block when the opcode
// announces one.
type Command struct {
	Opcode byte
	Params []uint16
	Data   []byte
}

// NArgs returns the parameter count.
func (c *Command) NArgs() int {
	return len(c.Params)
}

// DecodeResult tells the caller of Framer.Next what to do.
type DecodeResult int

const (
	// Decoded nothing, buffer empty enough to stop.
	Nothing DecodeResult = iota
	// A full frame needs more bytes than buffered, come back later.
	Wait
	// Decoded one command, call again.
	Decoded
)

// StallTimeout is how long an incomplete frame may sit in the buffer with no
// new bytes arriving before the framer logs an error.
const StallTimeout = 100 * time.Millisecond

func NewFramer(logger *zap.Logger) *Framer {
	return &Framer{logger: logger}
}

// Framer is the host side frame decoder. Bytes go in via Feed, commands come
// out via Next. It never blocks and never gives up: garbage is skipped until
// the next sync token.
type Framer struct {
	logger *zap.Logger

	buf []byte
	pos int

	skipped      int
	lastProgress time.Time
	stalled      bool
}

// Feed appends received bytes.
func (f *Framer) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	f.buf = append(f.buf, p...)
	f.lastProgress = time.Now()
	f.stalled = false
}

// Buffered returns how many undecoded bytes are pending.
func (f *Framer) Buffered() int {
	return len(f.buf) - f.pos
}

// Next tries to decode one command. On Decoded the returned command is valid
// until the next call.
func (f *Framer) Next() (*Command, DecodeResult) {
	for {
		f.compact()

		if !f.seekSync() {
			return nil, Nothing
		}

		// sync opcode lenLo lenHi
		if f.Buffered() < 4 {
			return nil, f.wait()
		}

		opcode := f.buf[f.pos+1]
		paramLen := int(binary.LittleEndian.Uint16(f.buf[f.pos+2:]))

		if !plausible(opcode, paramLen) {
			f.dropSync()
			continue
		}

		total := 4 + paramLen
		if f.Buffered() < total {
			return nil, f.wait()
		}

		cmd := &Command{Opcode: opcode}
		for i := 0; i < paramLen/2; i++ {
			cmd.Params = append(cmd.Params, binary.LittleEndian.Uint16(f.buf[f.pos+4+2*i:]))
		}
		f.pos += total

		if opcode >= OpcodeFirstWithData && opcode != OpcodeNop {
			data, res := f.dataBlock()
			if res != Decoded {
				f.pos -= total // rewind, retry when more bytes arrived
				return nil, res
			}
			cmd.Data = data
		}

		f.reportSkipped()
		f.lastProgress = time.Now()
		return cmd, Decoded
	}
}

// dataBlock decodes the data frame that must directly follow a with-data
// command.
func (f *Framer) dataBlock() ([]byte, DecodeResult) {
	if f.Buffered() < 4 {
		return nil, f.wait()
	}
	if f.buf[f.pos] != SyncToken {
		f.logger.Error("data block without sync token",
			zap.Uint8("got", f.buf[f.pos]))
		return nil, Decoded // empty block, command handled without data
	}
	tag := f.buf[f.pos+1]
	if tag > LastDataField {
		f.logger.Error("bad data field tag", zap.Uint8("tag", tag))
		return nil, Decoded
	}
	dataLen := int(binary.LittleEndian.Uint16(f.buf[f.pos+2:]))
	if f.Buffered() < 4+dataLen {
		return nil, f.wait()
	}
	data := make([]byte, dataLen)
	copy(data, f.buf[f.pos+4:])
	f.pos += 4 + dataLen
	return data, Decoded
}

// seekSync advances over garbage until the buffer starts with a sync token.
func (f *Framer) seekSync() bool {
	for f.Buffered() > 0 && f.buf[f.pos] != SyncToken {
		f.pos++
		f.skipped++
	}
	return f.Buffered() > 0
}

// dropSync discards the current sync byte so the scan resumes one byte later.
func (f *Framer) dropSync() {
	f.pos++
	f.skipped++
}

func (f *Framer) reportSkipped() {
	if f.skipped == 0 {
		return
	}
	f.logger.Warn("skipped bytes before sync", zap.Int("count", f.skipped))
	f.skipped = 0
}

func (f *Framer) wait() DecodeResult {
	if !f.stalled && !f.lastProgress.IsZero() && time.Since(f.lastProgress) > StallTimeout {
		f.stalled = true
		f.logger.Error("frame stalled",
			zap.Int("buffered", f.Buffered()),
			zap.Duration("since", time.Since(f.lastProgress)))
	}
	return Wait
}

func (f *Framer) compact() {
	if f.pos == 0 {
		return
	}
	if f.pos == len(f.buf) {
		f.buf = f.buf[:0]
		f.pos = 0
		return
	}
	// keep allocation, slide the tail down once in a while
	if f.pos > 4096 {
		n := copy(f.buf, f.buf[f.pos:])
		f.buf = f.buf[:n]
		f.pos = 0
	}
}

// plausible rejects frames whose header cannot be valid, so one corrupted
// length byte does not swallow the rest of the stream.
func plausible(opcode byte, paramLen int) bool {
	if opcode == 0 || opcode > OpcodeNop {
		return false
	}
	if paramLen%2 != 0 || paramLen > 2*MaxArgs {
		return false
	}
	return true
}
