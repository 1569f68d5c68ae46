package config

import (
	"errors"
	"strings"

	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"github.com/spf13/viper"
)

var log = common.NewLog("config")

const (
	EnvPrefix  = "PAYID"
	configName = "payid-validator"
)

// Load reads the yaml config at cfgFile, or ./payid-validator.yaml when
// cfgFile is empty. Environment variables such as PAYID_TIMEOUT_REQUEST
// override file values. Only an explicit cfgFile has to exist.
func Load(cfgFile string) (schema.Config, error) {
	v := viper.New()
	setDefaults(v, schema.DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		log.Info("Using config file", "path", v.ConfigFileUsed())
	} else {
		notFound := viper.ConfigFileNotFoundError{}
		if cfgFile != "" || !errors.As(err, &notFound) {
			return schema.Config{}, err
		}
	}

	cfg := schema.Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return schema.Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides apply without a file.
func setDefaults(v *viper.Viper, d schema.Config) {
	v.SetDefault("port", d.Port)
	v.SetDefault("metricPort", d.MetricPort)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("sentryDsn", d.SentryDsn)

	v.SetDefault("lookup.blockchainApiKey", d.Lookup.BlockchainApiKey)
	v.SetDefault("lookup.etherscanApiKey", d.Lookup.EtherscanApiKey)
	v.SetDefault("lookup.xAddressDecoder", d.Lookup.XAddressDecoder)

	v.SetDefault("timeout.connect", d.Timeout.Connect)
	v.SetDefault("timeout.request", d.Timeout.Request)
	v.SetDefault("timeout.lookupConnect", d.Timeout.LookupConnect)
	v.SetDefault("timeout.lookupRequest", d.Timeout.LookupRequest)

	v.SetDefault("schemaDir", d.SchemaDir)
	v.SetDefault("mysql", d.Mysql)
	v.SetDefault("sqliteDir", d.SqliteDir)
	v.SetDefault("retentionHours", d.RetentionHours)

	v.SetDefault("limit.rate", d.Limit.Rate)
	v.SetDefault("limit.period", d.Limit.Period)
	v.SetDefault("kafka.start", d.Kafka.Start)
	v.SetDefault("kafka.uri", d.Kafka.Uri)
}
