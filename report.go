package payidvalidator

import (
	"encoding/json"
	"time"

	"github.com/everFinance/payid-validator/schema"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is the outcome of one validation run. Errors holds input problems
// found before any request, FailError a failure of the PayID request itself.
type Report struct {
	ID         string           `json:"id"`
	PayID      string           `json:"payId"`
	Network    string           `json:"network"`
	RequestURL string           `json:"requestUrl,omitempty"`
	Errors     []string         `json:"errors,omitempty"`
	FailError  string           `json:"failError,omitempty"`
	Verdicts   []schema.Verdict `json:"verdicts"`
	Completed  bool             `json:"completed"`
	StartedAt  time.Time        `json:"startedAt"`
	Duration   time.Duration    `json:"-"`
}

func newReport(payId, network string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		PayID:     payId,
		Network:   network,
		Verdicts:  []schema.Verdict{},
		StartedAt: time.Now(),
	}
}

func (r *Report) HasPreflightErrors() bool {
	return len(r.Errors) > 0
}

// Score is 0 unless the run got a response from the server.
func (r *Report) Score() float64 {
	if r == nil || !r.Completed {
		return 0
	}
	return Score(r.Verdicts)
}

func (r *Report) Count(code schema.Code) int {
	n := 0
	for _, v := range r.Verdicts {
		if v.Code == code {
			n++
		}
	}
	return n
}

func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(struct {
		*alias
		Score      float64 `json:"score"`
		DurationMs int64   `json:"durationMs"`
	}{
		alias:      (*alias)(r),
		Score:      r.Score(),
		DurationMs: r.Duration.Milliseconds(),
	})
}

func (r *Report) Summary() schema.ReportSummary {
	return schema.ReportSummary{
		Id:         r.ID,
		PayId:      r.PayID,
		Network:    r.Network,
		Completed:  r.Completed,
		FailError:  r.FailError,
		Score:      r.Score(),
		Verdicts:   len(r.Verdicts),
		Failed:     r.Count(schema.CodeFail),
		DurationMs: r.Duration.Milliseconds(),
		Timestamp:  r.StartedAt.Unix(),
	}
}

func (r *Report) Record() (schema.ReportRecord, error) {
	by, err := json.Marshal(r.Verdicts)
	if err != nil {
		return schema.ReportRecord{}, err
	}
	return schema.ReportRecord{
		CreatedAt:  r.StartedAt,
		RunId:      r.ID,
		PayId:      r.PayID,
		Network:    r.Network,
		RequestUrl: r.RequestURL,
		Completed:  r.Completed,
		FailError:  r.FailError,
		Score:      r.Score(),
		DurationMs: r.Duration.Milliseconds(),
		Verdicts:   datatypes.JSON(by),
	}, nil
}

// ReportFromRecord rebuilds a report stored with Record.
func ReportFromRecord(rec schema.ReportRecord) (*Report, error) {
	r := &Report{
		ID:         rec.RunId,
		PayID:      rec.PayId,
		Network:    rec.Network,
		RequestURL: rec.RequestUrl,
		FailError:  rec.FailError,
		Completed:  rec.Completed,
		StartedAt:  rec.CreatedAt,
		Duration:   time.Duration(rec.DurationMs) * time.Millisecond,
		Verdicts:   []schema.Verdict{},
	}
	if len(rec.Verdicts) > 0 {
		if err := json.Unmarshal(rec.Verdicts, &r.Verdicts); err != nil {
			return nil, err
		}
	}
	return r, nil
}
