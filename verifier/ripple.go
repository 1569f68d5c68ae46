package verifier

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/everFinance/payid-validator/cache"
	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
)

const xAddressCachePrefix = "xaddr_"

type Ripple struct {
	cli     *gentleman.Client
	decoder string
	resolve HostResolver
	cache   cache.Store
}

func NewRipple(opts Options) *Ripple {
	opts.setDefaults()
	return &Ripple{
		cli:     common.NewClient(opts.ConnectTimeout, opts.RequestTimeout, opts.Transport),
		decoder: strings.TrimRight(opts.XAddressDecoder, "/"),
		resolve: opts.Resolve,
		cache:   opts.Cache,
	}
}

func (r *Ripple) Name() string { return "xrpl" }

// Verify runs account_info against a rippled JSON-RPC endpoint. X-addresses
// are decoded to their classic account first, and the verdict reports the
// classic account.
func (r *Ripple) Verify(rec schema.AddressRecord) schema.Verdict {
	host, ok := r.resolve(rec.PaymentNetwork, rec.Environment)
	if !ok {
		return noLookupService(rec)
	}

	account := rec.Address
	if IsXAddress(account) {
		classic, err := r.DecodeXAddress(account)
		if err != nil {
			log.Warn("decode x-address", "err", err, "address", account)
			return lookupFailed(rec, rec.Address, MsgDecodeFailed, err)
		}
		account = classic
	}

	req := r.cli.Post()
	req.URL(host)
	req.SetHeader("Accept", "application/json")
	req.JSON(map[string]interface{}{
		"method": "account_info",
		"params": []map[string]string{
			{"account": account},
		},
	})
	resp, err := req.Send()
	if err != nil {
		log.Warn("xrpl address lookup", "err", err, "address", account)
		return lookupFailed(rec, account, MsgIndeterminate, err)
	}
	defer resp.Close()

	body := resp.Bytes()
	if resp.Error != nil {
		log.Warn("xrpl address lookup: read body", "err", resp.Error, "address", account)
		return lookupFailed(rec, account, MsgIndeterminate, resp.Error)
	}
	result := gjson.GetBytes(body, "result")
	if result.Get("error").String() == "actNotFound" {
		return schema.Fail(Label(rec.Index), account, MsgNotFound)
	}
	data := result.Get("account_data")
	if data.Exists() && data.Get("Account").String() == account {
		balance := data.Get("Balance").String()
		return schema.Pass(Label(rec.Index), account, MsgValidated+formatBalance(balance, 6, "XRP"))
	}
	log.Warn("xrpl address lookup: unexpected response", "status", resp.StatusCode, "address", account)
	return schema.Fail(Label(rec.Index), account, MsgIndeterminate)
}

func IsXAddress(address string) bool {
	return strings.HasPrefix(address, "X")
}

// DecodeXAddress resolves an X-address to its classic account through the
// decode service. Results are cached when a cache is configured.
func (r *Ripple) DecodeXAddress(xAddress string) (string, error) {
	if r.cache != nil {
		if by, ok := r.cache.Get(xAddressCachePrefix + xAddress); ok {
			return string(by), nil
		}
	}

	req := r.cli.Get()
	req.URL(r.decoder)
	req.AddPath("/api/decode/" + url.PathEscape(xAddress))
	req.SetHeader("Accept", "application/json")
	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", fmt.Errorf("%w: %d", schema.ErrBadStatus, resp.StatusCode)
	}

	body := resp.Bytes()
	if resp.Error != nil {
		return "", resp.Error
	}
	account := gjson.GetBytes(body, "account").String()
	if account == "" {
		return "", schema.ErrNotFound
	}
	if r.cache != nil {
		r.cache.Set(xAddressCachePrefix+xAddress, []byte(account))
	}
	return account, nil
}
