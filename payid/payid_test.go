package payid

import (
	"errors"
	"testing"

	"github.com/everFinance/payid-validator/schema"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	p, err := Parse("alice$example.com")
	assert.NoError(t, err)
	assert.Equal(t, "alice", p.User)
	assert.Equal(t, "example.com", p.Host)
	assert.Equal(t, "alice$example.com", p.String())
	assert.Equal(t, "https://example.com/alice", p.URL())

	p, err = Parse("first.last+pay$192.168.0.10")
	assert.NoError(t, err)
	assert.Equal(t, "first.last+pay", p.User)
	assert.Equal(t, "192.168.0.10", p.Host)

	p, err = Parse("bob@home$sub.pay-id.co.uk")
	assert.NoError(t, err)
	assert.Equal(t, "sub.pay-id.co.uk", p.Host)
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"alice",
		"alice.example.com",
		"$example.com",
		"alice$",
		"alice$$example.com",
		"alice$example",
		"alice$-example.com",
		"alice$example.com.",
		"alice$exa mple.com",
		".alice$example.com",
		"alice..b$example.com",
		"Alice$example.com",
		"alice$example.com:8080",
	}
	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(t, err, c)
		assert.True(t, errors.Is(err, schema.ErrInvalidPayID), c)
		assert.Contains(t, err.Error(), "("+c+")")
	}
}

func TestURLEscapesUser(t *testing.T) {
	p, err := Parse("a#b?c$example.com")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/a%23b%3Fc", p.URL())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice$example.com", Normalize("  Alice$Example.COM\n"))
}

func TestIsNetworkSupported(t *testing.T) {
	for _, name := range schema.NetworkNames() {
		assert.NoError(t, IsNetworkSupported(name), name)
	}
	for _, name := range []string{"", "ALL", "btc", "doge-mainnet", "eth-goerli"} {
		err := IsNetworkSupported(name)
		assert.Error(t, err, name)
		assert.True(t, errors.Is(err, schema.ErrUnsupportedNetwork))
	}
}

func TestPreflight(t *testing.T) {
	msgs, ok := HasPreflightErrors("alice$example.com", "all")
	assert.False(t, ok)
	assert.Empty(t, msgs)

	// exactly one format error for a bad identifier
	for _, bad := range []string{"alice", "alice$bad_host", "alice$"} {
		msgs, ok = HasPreflightErrors(bad, schema.NetworkBtcMainnet)
		assert.True(t, ok)
		assert.Equal(t, []string{"The PayID you specified (" + bad + ") is not a valid format for a PayID."}, msgs)
	}

	msgs = Preflight("alice$example.com", "nope")
	assert.Equal(t, []string{"The Request Type provided is not valid."}, msgs)

	// both checks run
	msgs = Preflight("alice", "nope")
	assert.Len(t, msgs, 2)
}
