package verifier

import (
	"github.com/ethereum/go-ethereum/common"
	vcommon "github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
)

type Ethereum struct {
	cli     *gentleman.Client
	apiKey  string
	resolve HostResolver
}

func NewEthereum(opts Options) *Ethereum {
	opts.setDefaults()
	return &Ethereum{
		cli:     vcommon.NewClient(opts.ConnectTimeout, opts.RequestTimeout, opts.Transport),
		apiKey:  opts.EtherscanApiKey,
		resolve: opts.Resolve,
	}
}

func (e *Ethereum) Name() string { return "eth" }

// Verify queries the etherscan account balance action. Etherscan answers
// 200 for unknown input too and signals it with status "0".
func (e *Ethereum) Verify(rec schema.AddressRecord) schema.Verdict {
	if !common.IsHexAddress(rec.Address) {
		return schema.Fail(Label(rec.Index), rec.Address, MsgBadEthAddress)
	}
	host, ok := e.resolve(rec.PaymentNetwork, rec.Environment)
	if !ok {
		return noLookupService(rec)
	}

	req := e.cli.Get()
	req.URL(host)
	req.AddPath("/api")
	req.SetHeader("Accept", "application/json")
	req.AddQuery("module", "account")
	req.AddQuery("action", "balance")
	req.AddQuery("address", rec.Address)
	req.AddQuery("tag", "latest")
	if e.apiKey != "" {
		req.AddQuery("apikey", e.apiKey)
	}
	resp, err := req.Send()
	if err != nil {
		log.Warn("eth address lookup", "err", err, "address", rec.Address)
		return lookupFailed(rec, rec.Address, MsgNotFound, err)
	}
	defer resp.Close()

	body := resp.Bytes()
	if resp.Error != nil {
		log.Warn("eth address lookup: read body", "err", resp.Error, "address", rec.Address)
		return lookupFailed(rec, rec.Address, MsgNotFound, resp.Error)
	}
	if resp.StatusCode != 200 || !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return schema.Fail(Label(rec.Index), rec.Address, MsgNotFound)
	}
	status := gjson.GetBytes(body, "status")
	if status.Type == gjson.String && status.Str == "0" {
		return schema.Fail(Label(rec.Index), rec.Address, MsgNotFound)
	}
	balance := gjson.GetBytes(body, "result").String()
	return schema.Pass(Label(rec.Index), rec.Address, MsgValidated+formatBalance(balance, 18, "ETH"))
}
