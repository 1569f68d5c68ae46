package schema

import "encoding/json"

const (
	AddressDetailsTypeAch    = "AchAddressDetails"
	AddressDetailsTypeCrypto = "CryptoAddressDetails"
)

// AddressRecord is one entry of the addresses list of a PayID response.
type AddressRecord struct {
	Index              int             `json:"index"`
	PaymentNetwork     string          `json:"paymentNetwork"`
	Environment        string          `json:"environment,omitempty"`
	AddressDetailsType string          `json:"addressDetailsType"`
	AddressDetails     json.RawMessage `json:"addressDetails,omitempty"`

	// Address is addressDetails.address for crypto entries
	Address string `json:"address,omitempty"`
}

func (a AddressRecord) IsCrypto() bool {
	return a.AddressDetailsType == AddressDetailsTypeCrypto
}
