package payidvalidator

import (
	"net/http"
	"strings"
	"time"

	"github.com/everFinance/payid-validator/cache"
	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/jsonschema"
	"github.com/everFinance/payid-validator/payid"
	"github.com/everFinance/payid-validator/schema"
	"github.com/everFinance/payid-validator/verifier"
	"gopkg.in/h2non/gentleman.v2"
)

var log = common.NewLog("payidvalidator")

const PayIDVersion = "1.0"

type Options struct {
	BlockchainApiKey string
	EtherscanApiKey  string
	XAddressDecoder  string
	SchemaDir        string
	Debug            bool

	ConnectTimeout       time.Duration
	RequestTimeout       time.Duration
	LookupConnectTimeout time.Duration
	LookupRequestTimeout time.Duration

	// Transport replaces the default transport of the PayID requests,
	// LookupTransport the one of the address lookups.
	Transport       http.RoundTripper
	LookupTransport http.RoundTripper
	Resolve         verifier.HostResolver
	Cache           cache.Store
}

func OptionsFromConfig(cfg schema.Config) Options {
	return Options{
		BlockchainApiKey:     cfg.Lookup.BlockchainApiKey,
		EtherscanApiKey:      cfg.Lookup.EtherscanApiKey,
		XAddressDecoder:      cfg.Lookup.XAddressDecoder,
		SchemaDir:            cfg.SchemaDir,
		Debug:                cfg.Debug,
		ConnectTimeout:       time.Duration(cfg.Timeout.Connect) * time.Second,
		RequestTimeout:       time.Duration(cfg.Timeout.Request) * time.Second,
		LookupConnectTimeout: time.Duration(cfg.Timeout.LookupConnect) * time.Second,
		LookupRequestTimeout: time.Duration(cfg.Timeout.LookupRequest) * time.Second,
	}
}

// Validator checks PayID servers. It keeps no per-run state and is safe for
// concurrent use.
type Validator struct {
	cli        *gentleman.Client
	schemas    *jsonschema.Validator
	dispatcher *verifier.Dispatcher
	debug      bool
}

func New(opts Options) (*Validator, error) {
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	schemas, err := jsonschema.New(opts.SchemaDir)
	if err != nil {
		return nil, err
	}
	if opts.Cache == nil {
		opts.Cache, err = cache.NewLocalCache(time.Hour)
		if err != nil {
			return nil, err
		}
	}

	dispatcher := verifier.New(verifier.Options{
		BlockchainApiKey: opts.BlockchainApiKey,
		EtherscanApiKey:  opts.EtherscanApiKey,
		XAddressDecoder:  opts.XAddressDecoder,
		ConnectTimeout:   opts.LookupConnectTimeout,
		RequestTimeout:   opts.LookupRequestTimeout,
		Transport:        opts.LookupTransport,
		Resolve:          opts.Resolve,
		Cache:            opts.Cache,
		Recorder:         lookupRecorder{},
	})

	return &Validator{
		cli:        common.NewClient(opts.ConnectTimeout, opts.RequestTimeout, opts.Transport),
		schemas:    schemas,
		dispatcher: dispatcher,
		debug:      opts.Debug,
	}, nil
}

// Validate runs every check against the server of payId. Input errors are
// reported in Report.Errors and no request is sent in that case.
func (v *Validator) Validate(payId, network string) *Report {
	r := newReport(payId, network)
	if msgs, ok := payid.HasPreflightErrors(payId, network); ok {
		r.Errors = msgs
		v.finish(r)
		return r
	}
	p, _ := payid.Parse(payId)
	v.run(r, p.URL())
	return r
}

// ValidateURL runs the checks against requestURL directly, skipping the
// identifier grammar. Useful for servers on non-standard ports.
func (v *Validator) ValidateURL(requestURL, network string) *Report {
	r := newReport("", network)
	if err := payid.IsNetworkSupported(network); err != nil {
		r.Errors = []string{payid.Message(err)}
		v.finish(r)
		return r
	}
	v.run(r, requestURL)
	return r
}

func (v *Validator) run(r *Report, requestURL string) {
	n, _ := schema.LookupNetwork(r.Network)
	r.RequestURL = requestURL
	if v.debug {
		log.Info("validation started", "url", requestURL, "network", n.Name)
	}

	res, err := v.fetch(requestURL, n)
	if err != nil {
		log.Warn("payid request failed", "err", err, "url", requestURL)
		r.FailError = err.Error()
		v.finish(r)
		return
	}

	r.Verdicts = v.inspect(res, requestURL, n)
	r.Completed = true
	v.finish(r)
}

// inspect runs the response checks in order. Only the timing and status
// checks apply to a status other than 200.
func (v *Validator) inspect(res *response, requestURL string, n schema.NetworkDescriptor) []schema.Verdict {
	verdicts := []schema.Verdict{
		checkResponseTime(res.Elapsed),
		checkStatusCode(res.StatusCode),
	}
	if res.StatusCode != http.StatusOK {
		return verdicts
	}

	verdicts = append(verdicts,
		checkAllowOrigin(res.Header),
		checkAllowMethods(res.Header, func() bool { return v.probeOptions(requestURL, n) }),
		checkAllowHeaders(res.Header),
		checkExposeHeaders(res.Header),
		checkCacheControl(res.Header),
		checkContentType(res.Header),
	)
	return append(verdicts, v.checkBody(res.Body, n)...)
}

func (v *Validator) finish(r *Report) {
	r.Duration = time.Since(r.StartedAt)
	metricReport(r)
	if !v.debug {
		return
	}
	for _, vd := range r.Verdicts {
		log.Info(strings.ToLower(vd.Label), "value", vd.Value, "code", vd.Code, "detail", strings.Join(vd.Detail, " "), "note", vd.Note)
	}
	log.Info("validation score", "score", r.Score(), "errors", len(r.Errors), "failError", r.FailError)
}
