package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chzchzchz/kalppm/calib"
	"github.com/chzchzchz/kalppm/kaltool"
	"github.com/chzchzchz/kalppm/store"
)

var rootCmd = &cobra.Command{
	Use:   "kalppm",
	Short: "Evaluate PPM error of an SDR using GSM base stations as reference.",
	Run:   func(cmd *cobra.Command, args []string) { run(cmd) },
}

var (
	bandName    string
	channelList string
	nchannels   int
	forceScan   bool
	verbose     bool
)

func init() {
	rootCmd.Flags().StringVarP(&bandName, "band", "b", "",
		"GSM band [GSM850, GSM-R, GSM900, EGSM, DCS, PCS]")
	rootCmd.Flags().StringVarP(&channelList, "channellist", "c", "bts_channels.csv",
		"Name of file storing channel list")
	rootCmd.Flags().IntVarP(&nchannels, "nchannels", "n", calib.DefaultNChannels,
		"Use N channels to measure PPM error")
	rootCmd.Flags().BoolVarP(&forceScan, "scan", "s", false,
		"Force channel scan")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print tool diagnostics to stderr")

	viper.SetDefault("tool.bin", kaltool.DefaultBin)
	viper.SetDefault("tool.timeout", kaltool.DefaultTimeout)
	viper.SetDefault("select.max_deviation_khz", calib.DefaultMaxDeviationKHz)
	viper.SetEnvPrefix("kalppm")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	tool := &kaltool.Tool{
		Bin:     viper.GetString("tool.bin"),
		Timeout: viper.GetDuration("tool.timeout"),
		Verbose: verbose,
	}
	ctx := context.Background()

	scan := forceScan
	if !scan {
		if _, err := os.Stat(channelList); err != nil {
			if _, err := os.Stat(channelList + ".csv"); err != nil {
				scan = true
			} else {
				channelList += ".csv"
			}
		}
	}

	var chans calib.ChannelList
	if scan {
		if bandName == "" {
			cmd.Usage()
			os.Exit(1)
		}
		band, err := calib.ParseBand(bandName)
		if err != nil {
			log.Fatal(err)
		}
		if chans, err = tool.Scan(ctx, band); err != nil {
			log.Fatal(err)
		}
		if err = store.Save(chans, channelList); err != nil {
			log.Fatal(err)
		}
		log.WithFields(log.Fields{
			"channels": len(chans),
			"path":     channelList,
		}).Debug("saved scanned channel list")
	} else {
		var err error
		if chans, err = store.Load(channelList); err != nil {
			log.Fatal(err)
		}
	}

	best := chans.Best(nchannels, viper.GetFloat64("select.max_deviation_khz"))
	res, err := calib.MeasureMeanPPM(ctx, tool, best)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.2fppm +-%v\n", res.PPM, res.PPMErr)
}

func main() {
	rootCmd.Execute()
}
