package schema

type Config struct {
	Port       string `yaml:"port"`
	MetricPort string `yaml:"metricPort"`
	Debug      bool   `yaml:"debug"`
	SentryDsn  string `yaml:"sentryDsn"`

	Lookup  Lookup  `yaml:"lookup"`
	Timeout Timeout `yaml:"timeout"`

	// empty means the schemas compiled into the binary
	SchemaDir string `yaml:"schemaDir"`

	Mysql          string `yaml:"mysql"`
	SqliteDir      string `yaml:"sqliteDir"`
	RetentionHours int    `yaml:"retentionHours"`

	Limit Limit `yaml:"limit"`
	Kafka Kafka `yaml:"kafka"`
}

type Lookup struct {
	BlockchainApiKey string `yaml:"blockchainApiKey"`
	EtherscanApiKey  string `yaml:"etherscanApiKey"`
	XAddressDecoder  string `yaml:"xAddressDecoder"`
}

// Timeout values are seconds.
type Timeout struct {
	Connect       int `yaml:"connect"`
	Request       int `yaml:"request"`
	LookupConnect int `yaml:"lookupConnect"`
	LookupRequest int `yaml:"lookupRequest"`
}

type Limit struct {
	Rate   int    `yaml:"rate"`
	Period string `yaml:"period"` // "S", "M", "H" or "D"
}

type Kafka struct {
	Start bool   `yaml:"start"`
	Uri   string `yaml:"uri"`
}

func DefaultConfig() Config {
	return Config{
		Port:       ":8080",
		MetricPort: ":9000",
		Lookup: Lookup{
			XAddressDecoder: "https://xrpaddress.info",
		},
		Timeout: Timeout{
			Connect:       5,
			Request:       10,
			LookupConnect: 2,
			LookupRequest: 5,
		},
		SqliteDir:      "./data/sqlite",
		RetentionHours: 24 * 7,
		Limit: Limit{
			Rate:   30,
			Period: "M",
		},
	}
}
