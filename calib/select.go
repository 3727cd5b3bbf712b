package calib

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultNChannels       = 3
	DefaultMaxDeviationKHz = 0.6
)

// Best returns up to n channels to calibrate against. A BTS whose apparent
// frequency deviation strays from the rest is an unreliable reference, so
// the single worst offender is dropped until every survivor sits within
// maxDevKHz of the group's mean deviation. Survivors are ranked by power.
// On ties for worst offender the earliest channel is dropped.
func (cl ChannelList) Best(n int, maxDevKHz float64) ChannelList {
	chans := append(ChannelList{}, cl...)
	for len(chans) > 0 {
		devs := make([]float64, len(chans))
		for i, c := range chans {
			devs[i] = c.DeviationKHz
		}
		mean := stat.Mean(devs, nil)
		worst, worstDev := -1, 0.0
		for i, d := range devs {
			if dev := math.Abs(d - mean); dev > worstDev {
				worst, worstDev = i, dev
			}
		}
		if worst < 0 || worstDev < maxDevKHz {
			break
		}
		chans = append(chans[:worst], chans[worst+1:]...)
	}
	sort.SliceStable(chans, func(i, j int) bool { return chans[i].Power > chans[j].Power })
	if len(chans) > n {
		chans = chans[:n]
	}
	return chans
}
