package jsonschema

import (
	"encoding/json"

	"github.com/everFinance/payid-validator/schema"
	"github.com/tidwall/gjson"
)

// ValidateBody validates a PayID response body: the document itself, each
// entry of addresses and the addressDetails of ACH and crypto entries.
// It also returns the object entries of addresses in document order.
func (v *Validator) ValidateBody(body []byte) ([]string, []schema.AddressRecord) {
	errs := v.Validate(body, PaymentInformation)

	addresses := gjson.GetBytes(body, "addresses")
	if !addresses.IsArray() {
		return errs, nil
	}

	var records []schema.AddressRecord
	for i, entry := range addresses.Array() {
		errs = append(errs, v.Validate([]byte(entry.Raw), Address)...)
		if !entry.IsObject() {
			continue
		}

		rec := newRecord(i, entry)
		details := entry.Get("addressDetails")
		if rec.AddressDetailsType != "" && details.Exists() {
			switch rec.AddressDetailsType {
			case schema.AddressDetailsTypeAch:
				errs = append(errs, v.Validate([]byte(details.Raw), AchAddressDetails)...)
			case schema.AddressDetailsTypeCrypto:
				errs = append(errs, v.Validate([]byte(details.Raw), CryptoAddressDetails)...)
			}
		}
		records = append(records, rec)
	}
	return errs, records
}

func newRecord(index int, entry gjson.Result) schema.AddressRecord {
	rec := schema.AddressRecord{
		Index:              index,
		PaymentNetwork:     entry.Get("paymentNetwork").String(),
		Environment:        entry.Get("environment").String(),
		AddressDetailsType: entry.Get("addressDetailsType").String(),
	}
	if details := entry.Get("addressDetails"); details.Exists() {
		rec.AddressDetails = json.RawMessage(details.Raw)
		if rec.IsCrypto() {
			rec.Address = details.Get("address").String()
		}
	}
	return rec
}
