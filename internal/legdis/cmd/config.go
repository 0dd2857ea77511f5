package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"legdis/internal/analysis"
)

// Config is the resolved configuration for a run. Values come from flags,
// LEGDIS_* environment variables and .legdis.yaml, in that order.
type Config struct {
	Output    string `json:"output" mapstructure:"output" jsonschema:"title=Output File,description=File the listing is written to,default=out.legv8asm"`
	NoWrite   bool   `json:"noWrite" mapstructure:"no-write" jsonschema:"title=No Write,description=Print the listing without writing the output file"`
	Annotate  bool   `json:"annotate" mapstructure:"annotate" jsonschema:"title=Annotate,description=Append branch target and ARM64 comments to each line"`
	NoColor   bool   `json:"noColor" mapstructure:"no-color" jsonschema:"title=No Color,description=Disable syntax highlighting"`
	Unwrap    bool   `json:"unwrap" mapstructure:"unwrap" jsonschema:"title=Unwrap,description=Inflate gzip or zip containers around the image"`
	Key       string `json:"key,omitempty" mapstructure:"key" jsonschema:"title=XXTEA Key,description=Key used to decrypt wrapped images"`
	Signature string `json:"signature,omitempty" mapstructure:"signature" jsonschema:"title=XXTEA Signature,description=Prefix stripped from encrypted images before decryption"`
	Debug     bool   `json:"debug" mapstructure:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	LogFile   string `json:"logFile,omitempty" mapstructure:"log-file" jsonschema:"title=Log File,description=Also write structured logs to this file"`
}

var cfgFile string

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".legdis")
	}

	viper.SetEnvPrefix("LEGDIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("output", analysis.DefaultOutputFile)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func bindFlags(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		if f := cmd.Flags().Lookup(key); f != nil {
			cobra.CheckErr(viper.BindPFlag(key, f))
		} else if f := cmd.PersistentFlags().Lookup(key); f != nil {
			cobra.CheckErr(viper.BindPFlag(key, f))
		}
	}
}

func loadConfig() Config {
	return Config{
		Output:    viper.GetString("output"),
		NoWrite:   viper.GetBool("no-write"),
		Annotate:  viper.GetBool("annotate"),
		NoColor:   viper.GetBool("no-color"),
		Unwrap:    viper.GetBool("unwrap"),
		Key:       viper.GetString("key"),
		Signature: viper.GetString("signature"),
		Debug:     viper.GetBool("debug"),
		LogFile:   viper.GetString("log-file"),
	}
}
