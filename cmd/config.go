package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/josephgoksu/neurotech/internal/config"
	"github.com/spf13/viper"
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.EnvPrefix)                   // e.g. NEUROTECH_SERVER_PORT
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // llm.apiKey -> NEUROTECH_LLM_APIKEY
	viper.AutomaticEnv()

	config.SetDefaults()

	cfgFileFlag := cfgFile
	if cfgFileFlag == "" {
		cfgFileFlag = viper.GetString("config")
	}
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.SetConfigName(config.FileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFileFlag == "":
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		default:
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	} else if viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
