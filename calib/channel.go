package calib

// Channel is one BTS channel observed by a band scan. DeviationKHz is the
// signed offset between the measured carrier and its nominal frequency.
type Channel struct {
	Band         Band
	Channel      int
	FreqMHz      float64
	DeviationKHz float64
	Power        float64
}

// ChannelList holds the channels of one scan in observation order.
type ChannelList []Channel
