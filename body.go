package payidvalidator

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/everFinance/payid-validator/schema"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

const (
	LabelBodyJson           = "Response Body JSON"
	LabelBodyNetwork        = "Response Body Addresses Match Requested Headers"
	LabelBodyNetworkUnknown = "Response Body Matches Requested Network"
)

const (
	MsgBodyInvalid         = "The response body is NOT valid JSON."
	MsgBodyValid           = "The response body is valid JSON."
	MsgBodyUnparsed        = "The response body could not be parsed."
	MsgNetworkUnknown      = "The requested network type cannot be found."
	MsgPaymentNetworkDiffs = "The paymentNetwork does not match with request header."
	MsgEnvironmentDiffs    = "The environment does not match with request header."
)

// mediaTypeRegexp splits application/<network>[-<environment>]+<suffix>.
var mediaTypeRegexp = regexp.MustCompile(`application/(\w+)-*([^+]+)?\+(\w+)`)

// checkBody returns one verdict per verified crypto address, then the body
// verdict, then the network consistency verdict.
func (v *Validator) checkBody(body []byte, n schema.NetworkDescriptor) []schema.Verdict {
	if !gjson.ValidBytes(body) {
		return []schema.Verdict{
			schema.Fail(LabelBodyJson, StripTags(body), MsgBodyInvalid),
			schema.Fail(LabelBodyNetwork, n.MediaType, MsgBodyUnparsed),
		}
	}

	errs, records := v.schemas.ValidateBody(body)
	verdicts := v.dispatcher.VerifyAll(records)
	verdicts = append(verdicts, checkBodySchema(body, errs))
	return append(verdicts, checkBodyNetwork(n, records))
}

func checkBodySchema(body []byte, errs []string) schema.Verdict {
	pretty := gjson.GetBytes(body, "@pretty").Raw
	if len(errs) > 0 {
		return schema.Fail(LabelBodyJson, pretty, errs...)
	}
	return schema.Pass(LabelBodyJson, pretty, MsgBodyValid)
}

// decomposeMediaType returns the network and environment named by a media
// type. environment is empty for types such as application/ach+json.
func decomposeMediaType(mediaType string) (network, environment string, ok bool) {
	m := mediaTypeRegexp.FindStringSubmatch(mediaType)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// checkBodyNetwork compares the addresses of a body with the network that
// was asked for. The wildcard network accepts any address. Without an
// environment segment only addresses that declare no environment match.
func checkBodyNetwork(n schema.NetworkDescriptor, records []schema.AddressRecord) schema.Verdict {
	network, environment, ok := decomposeMediaType(n.MediaType)
	if !ok {
		return schema.Fail(LabelBodyNetworkUnknown, MsgNetworkUnknown)
	}
	if n.IsWildcard() {
		return schema.Pass(LabelBodyNetwork, n.MediaType)
	}

	var errs []string
	for _, rec := range records {
		if !strings.EqualFold(rec.PaymentNetwork, network) {
			errs = append(errs, MsgPaymentNetworkDiffs)
		}
		if rec.Environment != "" && !strings.EqualFold(rec.Environment, environment) {
			errs = append(errs, MsgEnvironmentDiffs)
		}
	}
	if len(errs) > 0 {
		return schema.Fail(LabelBodyNetwork, n.MediaType, errs...)
	}
	return schema.Pass(LabelBodyNetwork, n.MediaType)
}

// StripTags drops every markup tag and comment from body and keeps the
// text between them unchanged.
func StripTags(body []byte) string {
	var out strings.Builder
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out.String()
		case html.TextToken:
			out.Write(z.Raw())
		}
	}
}
