package calib

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

var ErrNoPower = errors.New("channel selection has zero total power")

// Measurer measures the receiver's PPM error against one reference channel.
type Measurer interface {
	MeasurePPM(ctx context.Context, band Band, channel int) (float64, error)
}

// Result is a combined PPM estimate over several reference channels. PPMErr
// bounds how far any single channel's reading sat from the mean.
type Result struct {
	PPM    float64
	PPMErr float64
}

// MeasureMeanPPM measures every channel in order and combines the readings
// into a power-weighted mean. Measurements run strictly sequentially; each
// one needs exclusive use of the radio.
func MeasureMeanPPM(ctx context.Context, m Measurer, chans ChannelList) (Result, error) {
	totalPower := 0.0
	for _, c := range chans {
		totalPower += c.Power
	}
	if totalPower == 0 {
		return Result{}, ErrNoPower
	}
	ppms := make([]float64, 0, len(chans))
	weights := make([]float64, 0, len(chans))
	for _, c := range chans {
		ppm, err := m.MeasurePPM(ctx, c.Band, c.Channel)
		if err != nil {
			return Result{}, errors.Wrapf(err, "measuring %s channel %d", c.Band, c.Channel)
		}
		ppms = append(ppms, ppm)
		weights = append(weights, c.Power)
	}
	mean := stat.Mean(ppms, weights)
	worst := 0.0
	for _, ppm := range ppms {
		if dev := math.Abs(ppm - mean); dev > worst {
			worst = dev
		}
	}
	return Result{PPM: mean, PPMErr: worst}, nil
}
