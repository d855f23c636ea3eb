package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	ionosphere "github.com/shathria/GMAT-tria"
	"github.com/spf13/viper"
)

// Scenario constants
const (
	defaultScenario = "~~unset~~"
	dateFormat      = "2006-01-02 15:04:05"
)

var scenario string

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "correction scenario TOML file")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}

	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	epochDT, err := time.Parse(dateFormat, viper.GetString("mission.epoch"))
	if err != nil {
		log.Fatalf("mission.epoch: %s", err)
	}
	station, err := ionosphere.StationByID(viper.GetString("station.id"))
	if err != nil {
		log.Fatal(err)
	}
	scPos := []float64{
		viper.GetFloat64("spacecraft.x"),
		viper.GetFloat64("spacecraft.y"),
		viper.GetFloat64("spacecraft.z"),
	}
	model, err := ionosphere.ParseCorrectionModel(viper.GetString("model.name"))
	if err != nil {
		log.Fatal(err)
	}

	var provider ionosphere.ElectronDensityProvider
	var store *ionosphere.CalibrationStore
	soft := ionosphere.ValidityWindow{Min: 19580101, Max: 20991231}
	hard := soft
	if os.Getenv("IONO_CONFIG") != "" {
		// Reference data configured: take windows and calibrations from it.
		if soft, hard, store, err = ionosphere.LoadDataFiles(); err != nil {
			log.Fatal(err)
		}
	} else if model == ionosphere.TRK223 {
		log.Fatal("TRK-2-23 needs IONO_CONFIG pointing at the calibration data")
	}
	if model == ionosphere.IRI2007 {
		provider = ionosphere.ChapmanLayer{
			PeakDensity:  viper.GetFloat64("chapman.peak_density"),
			PeakAltitude: viper.GetFloat64("chapman.peak_altitude"),
			ScaleHeight:  viper.GetFloat64("chapman.scale_height"),
		}
	}

	iono := ionosphere.NewIonosphere(model, provider, store, soft, hard)
	correction, err := iono.Correction(ionosphere.Request{
		StationLoc:    station.R,
		SpacecraftLoc: scPos,
		WaveLength:    viper.GetFloat64("signal.wavelength"),
		Epoch:         ionosphere.NewEpoch(epochDT),
		StationID:     station.ID(),
		SpacecraftID:  viper.GetInt("spacecraft.id"),
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s correction for %s: range = %.6f m, elevation = %.9f rad, time = %.12f s", model, station.Name, correction.Range, correction.Angle, correction.Time)
}
