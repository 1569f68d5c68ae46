package verifier

import (
	"fmt"
	"net/http"
	"time"

	"github.com/everFinance/payid-validator/cache"
	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"github.com/shopspring/decimal"
)

var log = common.NewLog("verifier")

const (
	MsgValidated     = "The address was validated with the network. Current balance: "
	MsgNotFound      = "The network could not find the given address."
	MsgIndeterminate = "The network response could not be interpreted; the address verification is indeterminate."
	MsgDecodeFailed  = "The X-address could not be decoded."
	MsgBadEthAddress = "The address is not a valid Ethereum address."
)

// Family verifies addresses of one network family against a public lookup
// service. Verify never returns an error: every outcome is a verdict.
type Family interface {
	Name() string
	Verify(rec schema.AddressRecord) schema.Verdict
}

// HostResolver maps a paymentNetwork/environment pair to a lookup service.
type HostResolver func(paymentNetwork, environment string) (string, bool)

// Recorder observes finished lookups.
type Recorder interface {
	ObserveLookup(family string, code schema.Code, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLookup(string, schema.Code, time.Duration) {}

type Options struct {
	BlockchainApiKey string
	EtherscanApiKey  string
	XAddressDecoder  string

	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	Transport      http.RoundTripper

	Resolve  HostResolver
	Cache    cache.Store
	Recorder Recorder
	PoolSize int
}

func (o *Options) setDefaults() {
	if o.XAddressDecoder == "" {
		o.XAddressDecoder = "https://xrpaddress.info"
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = 2 * time.Second
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.Resolve == nil {
		o.Resolve = schema.LookupHostname
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	if o.PoolSize <= 0 {
		o.PoolSize = 10
	}
}

func Label(index int) string {
	return fmt.Sprintf("Address[%d] verification", index)
}

func noLookupService(rec schema.AddressRecord) schema.Verdict {
	return schema.Fail(Label(rec.Index), rec.Address,
		fmt.Sprintf("No lookup service is known for network [%s].", schema.NetworkKey(rec.PaymentNetwork, rec.Environment)))
}

func lookupFailed(rec schema.AddressRecord, address, msg string, err error) schema.Verdict {
	return schema.Fail(Label(rec.Index), address, msg).WithNote("lookup failed: " + err.Error())
}

// formatBalance appends the unit amount to an integer balance given in the
// smallest denomination, e.g. "150000 (0.0015 BTC)".
func formatBalance(raw string, exp int32, unit string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return raw
	}
	return fmt.Sprintf("%s (%s %s)", raw, decimal.NewFromBigInt(d.BigInt(), -exp).String(), unit)
}
