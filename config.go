package moda

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	dataCfg   = _modaconfig{}
)

// _modaconfig is a "hidden" struct, just use `modaConfig`. It only locates the
// ephemeris data sources; all force configuration happens via Config.
type _modaconfig struct {
	VSOP87    bool
	VSOP87Dir string
	JPLDE     bool
	JPLDEFile string
}

// modaConfig returns the data-source configuration, loaded once from the
// conf.toml in the directory named by the MODA_CONFIG environment variable.
func modaConfig() _modaconfig {
	if cfgLoaded {
		return dataCfg
	}
	confPath := os.Getenv("MODA_CONFIG")
	if confPath == "" {
		panic("environment variable `MODA_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	vsop87Enabled := viper.GetBool("VSOP87.enabled")
	vsop87Dir := viper.GetString("VSOP87.directory")
	jpldeEnabled := viper.GetBool("JPLDE.enabled")
	jpldeFile := viper.GetString("JPLDE.file")

	if vsop87Enabled && jpldeEnabled {
		panic("both VSOP87 and JPLDE are enabled, please make up your mind (JPLDE is more precise)")
	}
	cfgLoaded = true
	dataCfg = _modaconfig{VSOP87: vsop87Enabled, VSOP87Dir: vsop87Dir, JPLDE: jpldeEnabled, JPLDEFile: jpldeFile}
	return dataCfg
}
