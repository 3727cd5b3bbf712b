// Package store persists scanned channel lists as CSV.
package store

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/chzchzchz/kalppm/calib"
)

// Header is the first line of a channel list file, matched byte-exact.
const Header = "band,channel,freq (MHz),freq deviation (kHz),power"

var ErrBadHeader = errors.New("invalid channel list header")

// Load reads a channel list written by Save. A bad header or any malformed
// record aborts the whole load.
func Load(path string) (calib.ChannelList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening channel list")
	}
	defer f.Close()

	r := bufio.NewReader(f)
	hdr, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "reading channel list")
	}
	if hdr = strings.TrimRight(hdr, "\r\n"); hdr != Header {
		return nil, errors.Wrap(ErrBadHeader, strconv.Quote(hdr))
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing channel list")
	}
	chans := make(calib.ChannelList, 0, len(recs))
	for i, rec := range recs {
		c, err := parseRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "channel list line %d", i+2)
		}
		chans = append(chans, c)
	}
	return chans, nil
}

func parseRecord(rec []string) (calib.Channel, error) {
	band, err := calib.ParseBand(rec[0])
	if err != nil {
		return calib.Channel{}, err
	}
	ch, err := strconv.Atoi(rec[1])
	if err != nil {
		return calib.Channel{}, err
	}
	if ch < 0 {
		return calib.Channel{}, errors.Errorf("negative channel %d", ch)
	}
	freq, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return calib.Channel{}, err
	}
	dev, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return calib.Channel{}, err
	}
	power, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return calib.Channel{}, err
	}
	return calib.Channel{
		Band:         band,
		Channel:      ch,
		FreqMHz:      freq,
		DeviationKHz: dev,
		Power:        power,
	}, nil
}

// Save overwrites path with the channel list. Power keeps two decimals;
// frequency fields keep full fixed-point precision.
func Save(chans calib.ChannelList, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating channel list")
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, Header)
	for _, c := range chans {
		fmt.Fprintf(w, "%s,%d,%f,%f,%.2f\n",
			c.Band, c.Channel, c.FreqMHz, c.DeviationKHz, c.Power)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "writing channel list")
	}
	return errors.Wrap(f.Close(), "closing channel list")
}
