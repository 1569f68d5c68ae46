package common

import (
	"net"
	"net/http"
	"time"

	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/timeout"
	"gopkg.in/h2non/gentleman.v2/plugins/transport"
)

const UserAgent = "PayIDValidator / 0.1.0"

// NewTransport returns a transport whose dial and TLS handshake are bounded
// by connect.
func NewTransport(connect time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connect,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connect,
		ExpectContinueTimeout: time.Second,
	}
}

// NewClient builds a gentleman client with a connect and an overall request
// timeout. A non-nil rt replaces the default transport, in which case the
// connect timeout is up to rt.
func NewClient(connect, request time.Duration, rt http.RoundTripper) *gentleman.Client {
	if rt == nil {
		rt = NewTransport(connect)
	}
	cli := gentleman.New()
	cli.Use(transport.Set(rt))
	cli.Use(timeout.Request(request))
	cli.SetHeader("User-Agent", UserAgent)
	return cli
}
