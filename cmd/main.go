package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	payidvalidator "github.com/everFinance/payid-validator"
	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/config"
	"github.com/everFinance/payid-validator/payid"
	"github.com/everFinance/payid-validator/schema"
	"github.com/everFinance/payid-validator/server"
	"github.com/getsentry/sentry-go"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "payid-validator",
		Usage:   "check PayID servers against the PayID protocol",
		Version: server.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cfg", Usage: "yaml config file (default ./payid-validator.yaml)", EnvVars: []string{"PAYID_CFG"}},
			&cli.BoolFlag{Name: "debug", Usage: "log every verdict", EnvVars: []string{"DEBUG"}},
			&cli.StringFlag{Name: "blockchain_api_key", Usage: "blockchain.info api code", EnvVars: []string{"BLOCKCHAIN_API_KEY"}},
			&cli.StringFlag{Name: "etherscan_api_key", Usage: "etherscan api key", EnvVars: []string{"ETHERSCAN_API_KEY"}},
			&cli.StringFlag{Name: "sentry_dsn", EnvVars: []string{"SENTRY_DSN"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "validate one PayID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "payid", Required: true},
					&cli.StringFlag{Name: "network", Value: schema.NetworkAll},
					&cli.BoolFlag{Name: "json", Usage: "print the JSON report"},
				},
				Action: validate,
			},
			{
				Name:   "networks",
				Usage:  "list the supported networks",
				Action: networks,
			},
			{
				Name:  "serve",
				Usage: "run the http api",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", EnvVars: []string{"PORT"}},
					&cli.StringFlag{Name: "metric_port", EnvVars: []string{"METRIC_PORT"}},
					&cli.StringFlag{Name: "mysql", Usage: "mysql dsn, sqlite is used when empty", EnvVars: []string{"MYSQL"}},
					&cli.StringFlag{Name: "sqlite_dir", EnvVars: []string{"SQLITE_DIR"}},
					&cli.BoolFlag{Name: "kafka", Usage: "publish reports to kafka", EnvVars: []string{"KAFKA"}},
					&cli.StringFlag{Name: "kafka_uri", EnvVars: []string{"KAFKA_URI"}},
				},
				Action: serve,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(c *cli.Context) (schema.Config, error) {
	cfg, err := config.Load(c.String("cfg"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("blockchain_api_key") {
		cfg.Lookup.BlockchainApiKey = c.String("blockchain_api_key")
	}
	if c.IsSet("etherscan_api_key") {
		cfg.Lookup.EtherscanApiKey = c.String("etherscan_api_key")
	}
	if c.IsSet("sentry_dsn") {
		cfg.SentryDsn = c.String("sentry_dsn")
	}

	common.InitLog(cfg.Debug)
	if cfg.SentryDsn != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDsn}); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func newValidator(cfg schema.Config) (*payidvalidator.Validator, error) {
	return payidvalidator.New(payidvalidator.OptionsFromConfig(cfg))
}

func validate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer sentry.Flush(2 * time.Second)

	v, err := newValidator(cfg)
	if err != nil {
		return err
	}
	report := v.Validate(payid.Normalize(c.String("payid")), c.String("network"))

	if c.Bool("json") {
		by, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(by))
	} else {
		printReport(report)
	}

	switch {
	case report.HasPreflightErrors():
		return cli.Exit(strings.Join(report.Errors, "\n"), 2)
	case !report.Completed:
		return cli.Exit(report.FailError, 1)
	}
	return nil
}

func printReport(r *payidvalidator.Report) {
	fmt.Printf("PayID:   %s\nNetwork: %s\n", r.PayID, r.Network)
	if r.RequestURL != "" {
		fmt.Printf("URL:     %s\n", r.RequestURL)
	}
	if len(r.Verdicts) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tCHECK\tVALUE\tDETAIL")
		for _, vd := range r.Verdicts {
			detail := strings.Join(vd.Detail, " ")
			if vd.Note != "" {
				detail = strings.TrimSpace(detail + " (" + vd.Note + ")")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", strings.ToUpper(string(vd.Code)), vd.Label, oneLine(vd.Value), detail)
		}
		w.Flush()
	}
	if r.Completed {
		fmt.Printf("\nScore: %.2f\n", r.Score())
	}
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}

func networks(c *cli.Context) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tACCEPT")
	for _, n := range schema.NetworkList() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.Name, n.Label, n.MediaType)
	}
	return w.Flush()
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("metric_port") {
		cfg.MetricPort = c.String("metric_port")
	}
	if c.IsSet("mysql") {
		cfg.Mysql = c.String("mysql")
	}
	if c.IsSet("sqlite_dir") {
		cfg.SqliteDir = c.String("sqlite_dir")
	}
	if c.IsSet("kafka") {
		cfg.Kafka.Start = c.Bool("kafka")
	}
	if c.IsSet("kafka_uri") {
		cfg.Kafka.Uri = c.String("kafka_uri")
	}
	if cfg.Kafka.Start && cfg.Kafka.Uri == "" {
		return errors.New("kafka is enabled without kafka_uri")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	v, err := newValidator(cfg)
	if err != nil {
		return err
	}
	s, err := server.New(cfg, v)
	if err != nil {
		return err
	}
	if err = s.Run(cfg.Port); err != nil {
		return err
	}
	metricSrv := common.NewMetricServer(cfg.MetricPort)

	<-signals

	metricSrv.Close()
	s.Close()
	sentry.Flush(2 * time.Second)
	return nil
}
