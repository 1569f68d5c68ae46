package verifier

import (
	"strings"
	"sync"
	"time"

	"github.com/everFinance/payid-validator/schema"
	"github.com/panjf2000/ants/v2"
)

// Dispatcher routes crypto addresses to the family registered for their
// lower-cased paymentNetwork.
type Dispatcher struct {
	families map[string]Family
	recorder Recorder
	poolSize int
}

// New returns a dispatcher with the btc, eth and xrpl families.
func New(opts Options) *Dispatcher {
	opts.setDefaults()
	d := NewDispatcher(opts.Recorder, opts.PoolSize,
		NewBitcoin(opts),
		NewEthereum(opts),
		NewRipple(opts),
	)
	return d
}

func NewDispatcher(recorder Recorder, poolSize int, families ...Family) *Dispatcher {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if poolSize <= 0 {
		poolSize = 10
	}
	d := &Dispatcher{
		families: make(map[string]Family, len(families)),
		recorder: recorder,
		poolSize: poolSize,
	}
	for _, f := range families {
		d.families[strings.ToLower(f.Name())] = f
	}
	return d
}

func (d *Dispatcher) Family(paymentNetwork string) (Family, bool) {
	f, ok := d.families[strings.ToLower(paymentNetwork)]
	return f, ok
}

// Verify looks up one address. ok is false when the record is not a crypto
// address or its network has no family, in which case no verdict exists.
func (d *Dispatcher) Verify(rec schema.AddressRecord) (v schema.Verdict, ok bool) {
	if !rec.IsCrypto() || rec.Address == "" {
		return v, false
	}
	f, ok := d.Family(rec.PaymentNetwork)
	if !ok {
		return v, false
	}
	start := time.Now()
	v = f.Verify(rec)
	d.recorder.ObserveLookup(f.Name(), v.Code, time.Since(start))
	return v, true
}

// VerifyAll looks up every record concurrently. Verdicts come back in
// record order whatever order the lookups finish in.
func (d *Dispatcher) VerifyAll(recs []schema.AddressRecord) []schema.Verdict {
	if len(recs) == 0 {
		return nil
	}
	results := make([]*schema.Verdict, len(recs))
	run := func(idx int) {
		if v, ok := d.Verify(recs[idx]); ok {
			results[idx] = &v
		}
	}

	var wg sync.WaitGroup
	p, err := ants.NewPoolWithFunc(d.poolSize, func(i interface{}) {
		defer wg.Done()
		run(i.(int))
	})
	if err != nil {
		log.Error("ants.NewPoolWithFunc", "err", err)
		for i := range recs {
			run(i)
		}
	} else {
		defer p.Release()
		for i := range recs {
			wg.Add(1)
			if err := p.Invoke(i); err != nil {
				wg.Done()
				run(i)
			}
		}
		wg.Wait()
	}

	verdicts := make([]schema.Verdict, 0, len(recs))
	for _, v := range results {
		if v != nil {
			verdicts = append(verdicts, *v)
		}
	}
	return verdicts
}
