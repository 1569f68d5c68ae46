package verifier

import (
	"net/url"
	"strings"

	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"gopkg.in/h2non/gentleman.v2"
)

type Bitcoin struct {
	cli     *gentleman.Client
	apiCode string
	resolve HostResolver
}

func NewBitcoin(opts Options) *Bitcoin {
	opts.setDefaults()
	return &Bitcoin{
		cli:     common.NewClient(opts.ConnectTimeout, opts.RequestTimeout, opts.Transport),
		apiCode: opts.BlockchainApiKey,
		resolve: opts.Resolve,
	}
}

func (b *Bitcoin) Name() string { return "btc" }

// Verify asks the blockchain.info balance endpoint for the address; any
// answer other than 200 means the address is unknown.
func (b *Bitcoin) Verify(rec schema.AddressRecord) schema.Verdict {
	host, ok := b.resolve(rec.PaymentNetwork, rec.Environment)
	if !ok {
		return noLookupService(rec)
	}

	req := b.cli.Get()
	req.URL(host)
	req.AddPath("/q/addressbalance/" + url.PathEscape(rec.Address))
	if b.apiCode != "" {
		req.AddQuery("api_code", b.apiCode)
	}
	resp, err := req.Send()
	if err != nil {
		log.Warn("btc address lookup", "err", err, "address", rec.Address)
		return lookupFailed(rec, rec.Address, MsgNotFound, err)
	}
	defer resp.Close()

	if resp.StatusCode != 200 {
		return schema.Fail(Label(rec.Index), rec.Address, MsgNotFound)
	}
	body := resp.Bytes()
	if resp.Error != nil {
		log.Warn("btc address lookup: read body", "err", resp.Error, "address", rec.Address)
		return lookupFailed(rec, rec.Address, MsgNotFound, resp.Error)
	}
	balance := strings.TrimSpace(string(body))
	return schema.Pass(Label(rec.Index), rec.Address, MsgValidated+formatBalance(balance, 8, "BTC"))
}
