package ionosphere

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _ionoconfig{}
)

// _ionoconfig is a "hidden" struct, just use `ionoConfig`
type _ionoconfig struct {
	dataDir string
}

// ionoConfig returns the ionosphere configuration, loading it on first use.
// The IONO_CONFIG environment variable points at the directory holding
// conf.toml, whose data.directory key locates the ionosphere data files
// (ap.dat, ig_rz.dat and the TRK-2-23 .csp calibrations).
func ionoConfig() _ionoconfig {
	if cfgLoaded {
		return config
	}
	confPath := os.Getenv("IONO_CONFIG")
	if confPath == "" {
		panic("environment variable `IONO_CONFIG` is missing or empty")
	}
	// A dedicated viper keeps the library config separate from any scenario
	// file loaded on the global instance.
	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}
	config = _ionoconfig{dataDir: v.GetString("data.directory")}
	cfgLoaded = true
	return config
}
