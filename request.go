package payidvalidator

import (
	"net/http"
	"strings"
	"time"

	"github.com/everFinance/payid-validator/schema"
	"gopkg.in/h2non/gentleman.v2"
)

// response is a fully read reply of a PayID server.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

func (v *Validator) payIdRequest(method, requestURL string, n schema.NetworkDescriptor) *gentleman.Request {
	req := v.cli.Request()
	req.Method(method)
	req.URL(requestURL)
	req.SetHeader("Accept", n.MediaType)
	req.SetHeader("PayID-Version", PayIDVersion)
	return req
}

// fetch sends the primary GET. Any status is a response; transport
// failures, including a body cut off by the request timeout, are errors.
func (v *Validator) fetch(requestURL string, n schema.NetworkDescriptor) (*response, error) {
	start := time.Now()
	resp, err := v.payIdRequest(http.MethodGet, requestURL, n).Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	body := resp.Bytes()
	if resp.Error != nil {
		return nil, resp.Error
	}
	return &response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Elapsed:    time.Since(start),
	}, nil
}

// probeOptions sends an OPTIONS pre-flight and reports whether its
// Access-Control-Allow-Methods mentions OPTIONS.
func (v *Validator) probeOptions(requestURL string, n schema.NetworkDescriptor) bool {
	resp, err := v.payIdRequest(http.MethodOptions, requestURL, n).Send()
	if err != nil {
		log.Warn("options pre-flight failed", "err", err, "url", requestURL)
		return false
	}
	defer resp.Close()

	methods := resp.Header.Values("Access-Control-Allow-Methods")
	if len(methods) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(strings.Join(methods, ", ")), "options")
}
