package jsonschema

import (
	"embed"
	"fmt"
	"path/filepath"

	"github.com/everFinance/payid-validator/common"
	"github.com/everFinance/payid-validator/schema"
	"github.com/xeipuuv/gojsonschema"
)

const (
	PaymentInformation   = "payment-information.json"
	Address              = "address.json"
	AchAddressDetails    = "ach-address-details.json"
	CryptoAddressDetails = "crypto-address-details.json"
)

var Names = []string{PaymentInformation, Address, AchAddressDetails, CryptoAddressDetails}

//go:embed schemas/*.json
var embedded embed.FS

var log = common.NewLog("jsonschema")

// Validator holds the compiled PayID schemas. It is read-only after New and
// safe for concurrent use.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the schemas. An empty dir selects the embedded documents,
// otherwise every file in Names is loaded from dir.
func New(dir string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(Names))}
	for _, name := range Names {
		loader, err := schemaLoader(dir, name)
		if err != nil {
			return nil, err
		}
		s, err := gojsonschema.NewSchema(loader)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = s
	}
	return v, nil
}

func schemaLoader(dir, name string) (gojsonschema.JSONLoader, error) {
	if dir == "" {
		by, err := embedded.ReadFile("schemas/" + name)
		if err != nil {
			return nil, err
		}
		return gojsonschema.NewBytesLoader(by), nil
	}
	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs)), nil
}

// Validate checks doc against the named schema and returns one
// "[field] message" string per violation.
func (v *Validator) Validate(doc []byte, name string) []string {
	s, ok := v.schemas[name]
	if !ok {
		return []string{fmt.Sprintf("[%s] %s", name, schema.ErrUnknownSchema.Error())}
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		log.Warn("schema validate", "err", err, "schema", name)
		return []string{fmt.Sprintf("[(root)] %s", err.Error())}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Sprintf("[%s] %s", desc.Field(), desc.Description()))
	}
	return errs
}
