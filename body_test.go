package payidvalidator

import (
	"testing"

	"github.com/everFinance/payid-validator/schema"
	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Not Found", StripTags([]byte(`<html><body><h1>Not Found</h1></body></html>`)))
	assert.Equal(t, "alert(1)hi", StripTags([]byte(`<script>alert(1)</script><!-- c --><b>hi</b>`)))
	assert.Equal(t, "plain text", StripTags([]byte("plain text")))
	assert.Equal(t, "", StripTags(nil))
}

func TestDecomposeMediaType(t *testing.T) {
	network, env, ok := decomposeMediaType("application/xrpl-testnet+json")
	assert.True(t, ok)
	assert.Equal(t, "xrpl", network)
	assert.Equal(t, "testnet", env)

	network, env, ok = decomposeMediaType("application/ach+json")
	assert.True(t, ok)
	assert.Equal(t, "ach", network)
	assert.Equal(t, "", env)

	_, _, ok = decomposeMediaType("application/json")
	assert.False(t, ok)
}

func TestCheckBodyNetwork(t *testing.T) {
	eth := schema.Networks[schema.NetworkEthMainnet]
	records := []schema.AddressRecord{
		{PaymentNetwork: "ETH", Environment: "MAINNET"},
		{PaymentNetwork: "btc", Environment: "MAINNET"},
		{PaymentNetwork: "eth", Environment: "KOVAN"},
		{PaymentNetwork: "eth"},
	}
	v := checkBodyNetwork(eth, records)
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, LabelBodyNetwork, v.Label)
	assert.Equal(t, "application/eth-mainnet+json", v.Value)
	assert.Equal(t, []string{MsgPaymentNetworkDiffs, MsgEnvironmentDiffs}, v.Detail)

	v = checkBodyNetwork(eth, records[:1])
	assert.Equal(t, schema.CodePass, v.Code)

	// wildcard accepts anything
	v = checkBodyNetwork(schema.Networks[schema.NetworkAll], records)
	assert.Equal(t, schema.CodePass, v.Code)

	// no environment segment
	ach := schema.Networks[schema.NetworkAch]
	v = checkBodyNetwork(ach, []schema.AddressRecord{{PaymentNetwork: "ACH"}})
	assert.Equal(t, schema.CodePass, v.Code)
	v = checkBodyNetwork(ach, []schema.AddressRecord{{PaymentNetwork: "ACH", Environment: "MAINNET"}})
	assert.Equal(t, []string{MsgEnvironmentDiffs}, v.Detail)

	v = checkBodyNetwork(schema.NetworkDescriptor{Name: "odd", MediaType: "application/json"}, records)
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, LabelBodyNetworkUnknown, v.Label)
	assert.Equal(t, MsgNetworkUnknown, v.Value)
}

func TestCheckBodySchema(t *testing.T) {
	v := checkBodySchema([]byte(`{"addresses":[]}`), nil)
	assert.Equal(t, schema.CodePass, v.Code)
	assert.Equal(t, "{\n  \"addresses\": []\n}\n", v.Value)
	assert.Equal(t, []string{MsgBodyValid}, v.Detail)

	v = checkBodySchema([]byte(`{}`), []string{"[(root)] addresses is required"})
	assert.Equal(t, schema.CodeFail, v.Code)
	assert.Equal(t, []string{"[(root)] addresses is required"}, v.Detail)
}
