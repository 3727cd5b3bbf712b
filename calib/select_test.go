package calib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testChannel(n int, dev, power float64) Channel {
	return Channel{
		Band:         BandGSM900,
		Channel:      n,
		FreqMHz:      900.0 + 0.2*float64(n),
		DeviationKHz: dev,
		Power:        power,
	}
}

func channelNumbers(cl ChannelList) (ns []int) {
	for _, c := range cl {
		ns = append(ns, c.Channel)
	}
	return ns
}

func TestBestRemovesOutlier(t *testing.T) {
	cl := ChannelList{
		testChannel(1, 0.1, 50),
		testChannel(2, 0.5, 80),
		testChannel(3, 5.0, 90),
	}
	best := cl.Best(2, 0.6)
	require.Equal(t, []int{2, 1}, channelNumbers(best))
}

func TestBestKeepsConsistentSet(t *testing.T) {
	tests := []ChannelList{
		{testChannel(1, 0.1, 10), testChannel(2, 0.2, 30), testChannel(3, 0.3, 20)},
		{testChannel(3, 0.3, 20), testChannel(1, 0.1, 10), testChannel(2, 0.2, 30)},
		{testChannel(2, 0.2, 30), testChannel(3, 0.3, 20), testChannel(1, 0.1, 10)},
	}
	for i, cl := range tests {
		best := cl.Best(2, 0.6)
		require.Equal(t, []int{2, 3}, channelNumbers(best), "ordering %d", i)
	}
}

func TestBestTieBreakDropsFirstWorst(t *testing.T) {
	// Channels 1 and 2 sit equally far from the mean; the first one goes.
	cl := ChannelList{
		testChannel(1, -1.0, 10),
		testChannel(2, 1.0, 20),
		testChannel(3, 0.0, 30),
	}
	best := cl.Best(3, 0.6)
	require.Equal(t, []int{3, 2}, channelNumbers(best))
}

func TestBestDeterministic(t *testing.T) {
	cl := ChannelList{
		testChannel(1, 2.0, 10),
		testChannel(2, -2.0, 10),
		testChannel(3, 2.0, 10),
		testChannel(4, 0.0, 40),
	}
	first := cl.Best(3, 0.6)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, cl.Best(3, 0.6))
	}
}

func TestBestFewerThanRequested(t *testing.T) {
	cl := ChannelList{testChannel(1, 0.1, 10), testChannel(2, 0.2, 20)}
	require.Len(t, cl.Best(5, 0.6), 2)
}

func TestBestEmpty(t *testing.T) {
	require.Empty(t, ChannelList{}.Best(3, 0.6))
}

func TestBestDoesNotMutateInput(t *testing.T) {
	cl := ChannelList{
		testChannel(1, 0.1, 50),
		testChannel(2, 0.5, 80),
		testChannel(3, 5.0, 90),
	}
	orig := append(ChannelList{}, cl...)
	cl.Best(2, 0.6)
	require.Equal(t, orig, cl)
}
