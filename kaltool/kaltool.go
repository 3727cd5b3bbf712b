// Package kaltool drives the kalibrate-rtl binary and parses its output.
package kaltool

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chzchzchz/kalppm/calib"
)

const (
	DefaultBin     = "kalibrate-rtl"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrBadScanLine    = errors.New("malformed scan output line")
	ErrNoErrorMarker  = errors.New("no average absolute error in tool output")
	ErrMeasureTimeout = errors.New("channel measurement timed out")
)

// Tool invokes kalibrate-rtl. The zero value runs the binary from PATH with
// the default measurement timeout and discards the tool's stderr.
type Tool struct {
	Bin     string
	Timeout time.Duration
	// Verbose passes the tool's stderr through instead of discarding it.
	Verbose bool
}

func New() *Tool { return &Tool{Bin: DefaultBin, Timeout: DefaultTimeout} }

// scanLineRE matches one BTS entry, e.g.
//	chan: 976 (890.2MHz - 0.551kHz)	power: 505808.23
var scanLineRE = regexp.MustCompile(
	`^\s*[^:]+:\s*(?P<chan>\d+)\s*\(` +
		`(?P<freq>\d+(?:\.\d+)?)MHz\s*(?P<sign>[+-])\s*(?P<dev>\d+(?:\.\d+)?)kHz\)` +
		`\s*power:\s*(?P<power>\S+)\s*$`)

var (
	chanIdx  = scanLineRE.SubexpIndex("chan")
	freqIdx  = scanLineRE.SubexpIndex("freq")
	signIdx  = scanLineRE.SubexpIndex("sign")
	devIdx   = scanLineRE.SubexpIndex("dev")
	powerIdx = scanLineRE.SubexpIndex("power")
)

// Scan lists the BTS channels the tool can see in band.
func (t *Tool) Scan(ctx context.Context, band calib.Band) (calib.ChannelList, error) {
	out, err := t.run(ctx, "-s", string(band))
	if err != nil {
		return nil, err
	}
	return parseScan(band, out)
}

func parseScan(band calib.Band, out []byte) (calib.ChannelList, error) {
	var chans calib.ChannelList
	s := bufio.NewScanner(bytes.NewReader(out))
	// First line is the tool's banner.
	s.Scan()
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := scanLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.Wrap(ErrBadScanLine, strconv.Quote(line))
		}
		ch, err := strconv.Atoi(m[chanIdx])
		if err != nil {
			return nil, errors.Wrap(ErrBadScanLine, strconv.Quote(line))
		}
		freq, err := strconv.ParseFloat(m[freqIdx], 64)
		if err != nil {
			return nil, errors.Wrap(ErrBadScanLine, strconv.Quote(line))
		}
		dev, err := strconv.ParseFloat(m[devIdx], 64)
		if err != nil {
			return nil, errors.Wrap(ErrBadScanLine, strconv.Quote(line))
		}
		if m[signIdx] == "-" {
			dev = -dev
		}
		power, err := strconv.ParseFloat(m[powerIdx], 64)
		if err != nil {
			return nil, errors.Wrap(ErrBadScanLine, strconv.Quote(line))
		}
		chans = append(chans, calib.Channel{
			Band:         band,
			Channel:      ch,
			FreqMHz:      freq,
			DeviationKHz: dev,
			Power:        power,
		})
	}
	return chans, s.Err()
}

const errMarker = "average absolute error:"

// MeasurePPM measures the receiver's PPM error against one channel. The
// tool locks onto the BTS carrier, so a run past Timeout means it never
// found the channel and the process is killed.
func (t *Tool) MeasurePPM(ctx context.Context, band calib.Band, channel int) (float64, error) {
	timeout := t.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := t.run(ctx, "-b", string(band), "-c", strconv.Itoa(channel))
	if err != nil {
		return 0, err
	}
	return parsePPM(out)
}

func parsePPM(out []byte) (float64, error) {
	_, rest, ok := strings.Cut(string(out), errMarker)
	if !ok {
		return 0, ErrNoErrorMarker
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, ErrNoErrorMarker
	}
	ppm, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, errors.Wrap(ErrNoErrorMarker, fields[0])
	}
	return ppm, nil
}

func (t *Tool) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := t.Bin
	if bin == "" {
		bin = DefaultBin
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	if t.Verbose {
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stderr = &stderr
	}
	start := time.Now()
	out, err := cmd.Output()
	log.WithFields(log.Fields{
		"bin":      bin,
		"args":     args,
		"duration": time.Since(start),
	}).Debug("ran calibration tool")
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrMeasureTimeout
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrapf(err, "%s: %s", bin, msg)
		}
		return nil, errors.Wrapf(err, "running %s", bin)
	}
	return out, nil
}
