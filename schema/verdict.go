package schema

type Code string

const (
	CodePass Code = "pass"
	CodeWarn Code = "warn"
	CodeFail Code = "fail"
)

// Points is the weight of a code in the validation score.
func (c Code) Points() int {
	switch c {
	case CodePass:
		return 2
	case CodeWarn:
		return 1
	default:
		return 0
	}
}

const MaxPoints = 2

// Verdict is the outcome of one check. Value is what was observed in the
// response, Detail explains a warning or failure.
type Verdict struct {
	Label  string   `json:"label"`
	Value  string   `json:"value"`
	Code   Code     `json:"code"`
	Detail []string `json:"detail,omitempty"`
	Note   string   `json:"note,omitempty"`
}

func Pass(label, value string, detail ...string) Verdict {
	return newVerdict(label, value, CodePass, detail)
}

func Warn(label, value string, detail ...string) Verdict {
	return newVerdict(label, value, CodeWarn, detail)
}

func Fail(label, value string, detail ...string) Verdict {
	return newVerdict(label, value, CodeFail, detail)
}

func newVerdict(label, value string, code Code, detail []string) Verdict {
	v := Verdict{Label: label, Value: value, Code: code}
	if len(detail) > 0 {
		v.Detail = append([]string(nil), detail...)
	}
	return v
}

// WithNote returns a copy of v carrying note.
func (v Verdict) WithNote(note string) Verdict {
	v.Detail = append([]string(nil), v.Detail...)
	v.Note = note
	return v
}
