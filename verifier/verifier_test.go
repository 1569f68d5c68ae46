package verifier

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/everFinance/payid-validator/cache"
	"github.com/everFinance/payid-validator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func resolveTo(url string) HostResolver {
	return func(paymentNetwork, environment string) (string, bool) {
		return url, true
	}
}

func cryptoRecord(index int, network, env, address string) schema.AddressRecord {
	return schema.AddressRecord{
		Index:              index,
		PaymentNetwork:     network,
		Environment:        env,
		AddressDetailsType: schema.AddressDetailsTypeCrypto,
		Address:            address,
	}
}

func TestBitcoinVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_code"))
		if r.URL.Path == "/q/addressbalance/1BoatSLRHtKNngkdXEeobR76b53LETtpyT" {
			_, _ = w.Write([]byte("150000"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Checksum does not validate"))
	}))
	defer srv.Close()

	b := NewBitcoin(Options{BlockchainApiKey: "secret", Resolve: resolveTo(srv.URL)})

	v := b.Verify(cryptoRecord(0, "BTC", "MAINNET", "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"))
	assert.Equal(t, schema.CodePass, v.Code)
	assert.Equal(t, "Address[0] verification", v.Label)
	assert.Equal(t, "1BoatSLRHtKNngkdXEeobR76b53LETtpyT", v.Value)
	assert.Equal(t, []string{MsgValidated + "150000 (0.0015 BTC)"}, v.Detail)

	v = b.Verify(cryptoRecord(3, "BTC", "MAINNET", "nope"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, "Address[3] verification", v.Label)
	assert.Equal(t, []string{MsgNotFound}, v.Detail)
}

func TestBitcoinUnknownEnvironment(t *testing.T) {
	b := NewBitcoin(Options{})
	v := b.Verify(cryptoRecord(0, "BTC", "REGTEST", "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, []string{"No lookup service is known for network [btc-regtest]."}, v.Detail)
}

func TestBitcoinConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b := NewBitcoin(Options{Resolve: resolveTo(url), RequestTimeout: time.Second})
	v := b.Verify(cryptoRecord(0, "BTC", "MAINNET", "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Contains(t, v.Note, "lookup failed")
}

func TestEthereumVerify(t *testing.T) {
	const addr = "0xde0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api", r.URL.Path)
		assert.Equal(t, "account", q.Get("module"))
		assert.Equal(t, "balance", q.Get("action"))
		assert.Equal(t, "latest", q.Get("tag"))
		assert.Equal(t, "key", q.Get("apikey"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		switch q.Get("address") {
		case addr:
			_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":"1500000000000000000"}`))
		case "0x0000000000000000000000000000000000000001":
			_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Error! Invalid address format"}`))
		case "0x0000000000000000000000000000000000000002":
			_, _ = w.Write([]byte(`<html>rate limited</html>`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	e := NewEthereum(Options{EtherscanApiKey: "key", Resolve: resolveTo(srv.URL)})

	v := e.Verify(cryptoRecord(1, "ETH", "MAINNET", addr))
	assert.Equal(t, schema.CodePass, v.Code)
	assert.Equal(t, []string{MsgValidated + "1500000000000000000 (1.5 ETH)"}, v.Detail)

	for _, a := range []string{
		"0x0000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000002",
		"0x0000000000000000000000000000000000000003",
	} {
		v = e.Verify(cryptoRecord(1, "ETH", "MAINNET", a))
		assert.Equal(t, schema.CodeFail, v.Code, a)
		assert.Equal(t, []string{MsgNotFound}, v.Detail, a)
	}
}

func TestEthereumBadAddress(t *testing.T) {
	e := NewEthereum(Options{Resolve: func(string, string) (string, bool) {
		t.Fatal("no lookup expected")
		return "", false
	}})
	v := e.Verify(cryptoRecord(0, "ETH", "MAINNET", "0x123"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, []string{MsgBadEthAddress}, v.Detail)
}

func newRippled(t *testing.T, calls *[]string, mu *sync.Mutex) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		by, _ := io.ReadAll(r.Body)
		assert.Equal(t, "account_info", gjson.GetBytes(by, "method").String())
		account := gjson.GetBytes(by, "params.0.account").String()
		mu.Lock()
		*calls = append(*calls, "rpc:"+account)
		mu.Unlock()

		switch account {
		case "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY":
			_, _ = w.Write([]byte(`{"result":{"account_data":{"Account":"rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY","Balance":"25000000"},"status":"success"}}`))
		case "rUnknownUnknownUnknownUnknown":
			_, _ = w.Write([]byte(`{"result":{"error":"actNotFound","error_message":"Account not found.","status":"error"}}`))
		default:
			_, _ = w.Write([]byte(`{"result":{"error":"tooBusy","status":"error"}}`))
		}
	}))
}

func TestRippleVerify(t *testing.T) {
	var (
		calls []string
		mu    sync.Mutex
	)
	srv := newRippled(t, &calls, &mu)
	defer srv.Close()

	r := NewRipple(Options{Resolve: resolveTo(srv.URL)})

	v := r.Verify(cryptoRecord(0, "XRPL", "TESTNET", "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"))
	assert.Equal(t, schema.CodePass, v.Code)
	assert.Equal(t, []string{MsgValidated + "25000000 (25 XRP)"}, v.Detail)

	v = r.Verify(cryptoRecord(0, "XRPL", "TESTNET", "rUnknownUnknownUnknownUnknown"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, []string{MsgNotFound}, v.Detail)

	// neither account data nor actNotFound
	v = r.Verify(cryptoRecord(0, "XRPL", "TESTNET", "rBusyBusyBusyBusy"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, []string{MsgIndeterminate}, v.Detail)
}

func TestRippleDecodesXAddressFirst(t *testing.T) {
	var (
		calls []string
		mu    sync.Mutex
	)
	rippled := newRippled(t, &calls, &mu)
	defer rippled.Close()

	decoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		x := strings.TrimPrefix(r.URL.Path, "/api/decode/")
		mu.Lock()
		calls = append(calls, "decode:"+x)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"account":"rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY","tag":12345,"test":false}`))
	}))
	defer decoder.Close()

	store, err := cache.NewLocalCache(time.Minute)
	require.NoError(t, err)
	r := NewRipple(Options{Resolve: resolveTo(rippled.URL), XAddressDecoder: decoder.URL + "/", Cache: store})

	const x = "XVLhHMPHU98es4dbozjVtdWzVrDjtV18pX8yuPT7y4xaEHi"
	v := r.Verify(cryptoRecord(2, "XRPL", "MAINNET", x))
	assert.Equal(t, schema.CodePass, v.Code)
	assert.Equal(t, "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY", v.Value)
	assert.Equal(t, []string{"decode:" + x, "rpc:rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"}, calls)

	// second run is served from the cache
	calls = nil
	v = r.Verify(cryptoRecord(2, "XRPL", "MAINNET", x))
	assert.Equal(t, schema.CodePass, v.Code)
	assert.Equal(t, []string{"rpc:rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"}, calls)
}

func TestRippleDecodeFailure(t *testing.T) {
	decoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer decoder.Close()

	r := NewRipple(Options{Resolve: resolveTo("http://127.0.0.1:1"), XAddressDecoder: decoder.URL})
	v := r.Verify(cryptoRecord(0, "XRPL", "MAINNET", "XBad"))
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, "XBad", v.Value)
	assert.Equal(t, []string{MsgDecodeFailed}, v.Detail)
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "100000000 (1 BTC)", formatBalance("100000000", 8, "BTC"))
	assert.Equal(t, "1 (0.000001 XRP)", formatBalance("1", 6, "XRP"))
	assert.Equal(t, "12.5", formatBalance("12.5", 8, "BTC"))
	assert.Equal(t, "n/a", formatBalance("n/a", 8, "BTC"))
}

// newStalledServer writes the head of a body, then holds the connection
// past any lookup timeout used here.
func newStalledServer(head string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(head))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
}

func TestLookupBodyTimeout(t *testing.T) {
	opts := func(srv *httptest.Server) Options {
		return Options{Resolve: resolveTo(srv.URL), RequestTimeout: 300 * time.Millisecond}
	}

	t.Run("btc", func(t *testing.T) {
		srv := newStalledServer("12")
		defer srv.Close()
		v := NewBitcoin(opts(srv)).Verify(cryptoRecord(0, "BTC", "MAINNET", "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"))
		assert.Equal(t, schema.CodeFail, v.Code)
		assert.Equal(t, []string{MsgNotFound}, v.Detail)
		assert.Contains(t, v.Note, "lookup failed")
	})

	t.Run("eth", func(t *testing.T) {
		srv := newStalledServer(`{"status":"1","message":"OK","result":"15`)
		defer srv.Close()
		v := NewEthereum(opts(srv)).Verify(cryptoRecord(0, "ETH", "MAINNET", "0xde0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"))
		assert.Equal(t, schema.CodeFail, v.Code)
		assert.Equal(t, []string{MsgNotFound}, v.Detail)
		assert.Contains(t, v.Note, "lookup failed")
	})

	t.Run("xrpl", func(t *testing.T) {
		srv := newStalledServer(`{"result":{"account_data":{"Account":"rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY","Balance":"25`)
		defer srv.Close()
		v := NewRipple(opts(srv)).Verify(cryptoRecord(0, "XRPL", "MAINNET", "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"))
		assert.Equal(t, schema.CodeFail, v.Code)
		assert.Equal(t, []string{MsgIndeterminate}, v.Detail)
		assert.Contains(t, v.Note, "lookup failed")
	})

	t.Run("x-address decode", func(t *testing.T) {
		srv := newStalledServer(`{"account":"rPEPP`)
		defer srv.Close()
		store, err := cache.NewLocalCache(time.Minute)
		require.NoError(t, err)
		o := opts(srv)
		o.XAddressDecoder = srv.URL
		o.Cache = store

		const x = "XVLhHMPHU98es4dbozjVtdWzVrDjtV18pX8yuPT7y4xaEHi"
		r := NewRipple(o)
		_, err = r.DecodeXAddress(x)
		assert.Error(t, err)
		_, ok := store.Get(xAddressCachePrefix + x)
		assert.False(t, ok)

		v := r.Verify(cryptoRecord(0, "XRPL", "MAINNET", x))
		assert.Equal(t, schema.CodeFail, v.Code)
		assert.Equal(t, []string{MsgDecodeFailed}, v.Detail)
	})
}

func TestLookupPathEscaping(t *testing.T) {
	var (
		paths []string
		mu    sync.Mutex
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewBitcoin(Options{Resolve: resolveTo(srv.URL)}).Verify(cryptoRecord(0, "BTC", "MAINNET", "../../admin"))
	assert.Equal(t, schema.CodeFail, v.Code)

	r := NewRipple(Options{Resolve: resolveTo("http://127.0.0.1:1"), XAddressDecoder: srv.URL})
	_, err := r.DecodeXAddress("X/../../admin")
	assert.Error(t, err)

	require.Len(t, paths, 2)
	for i, prefix := range []string{"/q/addressbalance/", "/api/decode/"} {
		assert.True(t, strings.HasPrefix(paths[i], prefix), paths[i])
		assert.NotContains(t, strings.TrimPrefix(paths[i], prefix), "/", paths[i])
	}
}
