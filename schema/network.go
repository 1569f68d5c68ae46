package schema

import (
	"strings"
)

const (
	NetworkBtcMainnet  = "btc-mainnet"
	NetworkBtcTestnet  = "btc-testnet"
	NetworkEthMainnet  = "eth-mainnet"
	NetworkEthRopsten  = "eth-ropsten"
	NetworkEthKovan    = "eth-kovan"
	NetworkEthRinkeby  = "eth-rinkeby"
	NetworkXrplMainnet = "xrpl-mainnet"
	NetworkXrplTestnet = "xrpl-testnet"
	NetworkXrplDevnet  = "xrpl-devnet"
	NetworkAch         = "ach"
	NetworkAll         = "all"
)

// NetworkDescriptor describes one network a PayID server can be queried for.
// Hostname is the lookup service used to verify addresses on that network,
// empty when the network has no on-chain lookup.
type NetworkDescriptor struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	MediaType string `json:"mediaType"`
	Hostname  string `json:"hostname,omitempty"`
}

// IsWildcard reports whether the descriptor asks for every address of a PayID.
func (n NetworkDescriptor) IsWildcard() bool {
	return n.Name == NetworkAll
}

var networkOrder = []string{
	NetworkBtcMainnet,
	NetworkBtcTestnet,
	NetworkEthMainnet,
	NetworkEthRopsten,
	NetworkEthKovan,
	NetworkEthRinkeby,
	NetworkXrplMainnet,
	NetworkXrplTestnet,
	NetworkXrplDevnet,
	NetworkAch,
	NetworkAll,
}

// Networks is the read-only registry of supported networks, keyed by name.
var Networks = map[string]NetworkDescriptor{
	NetworkBtcMainnet: {
		Name:      NetworkBtcMainnet,
		Label:     "BTC (mainnet)",
		MediaType: "application/btc-mainnet+json",
		Hostname:  "https://blockchain.info",
	},
	NetworkBtcTestnet: {
		Name:      NetworkBtcTestnet,
		Label:     "BTC (testnet)",
		MediaType: "application/btc-testnet+json",
		Hostname:  "https://testnet.blockchain.info",
	},
	NetworkEthMainnet: {
		Name:      NetworkEthMainnet,
		Label:     "ETH (mainnet)",
		MediaType: "application/eth-mainnet+json",
		Hostname:  "https://api.etherscan.io",
	},
	NetworkEthRopsten: {
		Name:      NetworkEthRopsten,
		Label:     "ETH (ropsten)",
		MediaType: "application/eth-ropsten+json",
		Hostname:  "https://api-ropsten.etherscan.io",
	},
	NetworkEthKovan: {
		Name:      NetworkEthKovan,
		Label:     "ETH (kovan)",
		MediaType: "application/eth-kovan+json",
		Hostname:  "https://api-kovan.etherscan.io",
	},
	NetworkEthRinkeby: {
		Name:      NetworkEthRinkeby,
		Label:     "ETH (rinkeby)",
		MediaType: "application/eth-rinkeby+json",
		Hostname:  "https://api-rinkeby.etherscan.io",
	},
	NetworkXrplMainnet: {
		Name:      NetworkXrplMainnet,
		Label:     "XRPL (mainnet)",
		MediaType: "application/xrpl-mainnet+json",
		Hostname:  "https://s1.ripple.com:51234",
	},
	NetworkXrplTestnet: {
		Name:      NetworkXrplTestnet,
		Label:     "XRPL (testnet)",
		MediaType: "application/xrpl-testnet+json",
		Hostname:  "https://s.altnet.rippletest.net:51234",
	},
	NetworkXrplDevnet: {
		Name:      NetworkXrplDevnet,
		Label:     "XRPL (devnet)",
		MediaType: "application/xrpl-devnet+json",
		Hostname:  "https://s.devnet.rippletest.net:51234",
	},
	NetworkAch: {
		Name:      NetworkAch,
		Label:     "ACH",
		MediaType: "application/ach+json",
	},
	NetworkAll: {
		Name:      NetworkAll,
		Label:     "All",
		MediaType: "application/payid+json",
	},
}

func LookupNetwork(name string) (NetworkDescriptor, bool) {
	n, ok := Networks[name]
	return n, ok
}

// LookupHostname returns the lookup service for a paymentNetwork/environment
// pair as declared in a PayID response body, e.g. ("BTC", "TESTNET").
func LookupHostname(paymentNetwork, environment string) (string, bool) {
	n, ok := Networks[NetworkKey(paymentNetwork, environment)]
	if !ok || n.Hostname == "" {
		return "", false
	}
	return n.Hostname, true
}

func NetworkKey(paymentNetwork, environment string) string {
	return strings.ToLower(paymentNetwork + "-" + environment)
}

// NetworkNames returns the registry keys in display order.
func NetworkNames() []string {
	names := make([]string, len(networkOrder))
	copy(names, networkOrder)
	return names
}

func NetworkList() []NetworkDescriptor {
	res := make([]NetworkDescriptor, 0, len(networkOrder))
	for _, name := range networkOrder {
		res = append(res, Networks[name])
	}
	return res
}
