package calib

import (
	"github.com/pkg/errors"
)

// Band is a GSM band name understood by the calibration tool.
type Band string

const (
	BandGSM850 Band = "GSM850"
	BandGSMR   Band = "GSM-R"
	BandGSM900 Band = "GSM900"
	BandEGSM   Band = "EGSM"
	BandDCS    Band = "DCS"
	BandPCS    Band = "PCS"
)

var ErrUnknownBand = errors.New("unknown GSM band")

func Bands() []Band {
	return []Band{BandGSM850, BandGSMR, BandGSM900, BandEGSM, BandDCS, BandPCS}
}

func ParseBand(s string) (Band, error) {
	for _, b := range Bands() {
		if s == string(b) {
			return b, nil
		}
	}
	return "", errors.Wrap(ErrUnknownBand, s)
}
