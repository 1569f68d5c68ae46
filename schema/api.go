package schema

type ReqValidate struct {
	PayId   string `json:"payId" binding:"required"`
	Network string `json:"network" binding:"required"`
}

type RespErr struct {
	Err string `json:"error"`
}

type RespInfo struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Networks []string `json:"networks"`
	History  bool     `json:"history"`
}

// ReportSummary is the list form of a stored report, also published to kafka.
type ReportSummary struct {
	Id         string  `json:"id"`
	PayId      string  `json:"payId"`
	Network    string  `json:"network"`
	Completed  bool    `json:"completed"`
	FailError  string  `json:"failError,omitempty"`
	Score      float64 `json:"score"`
	Verdicts   int     `json:"verdicts"`
	Failed     int     `json:"failed"`
	DurationMs int64   `json:"durationMs"`
	Timestamp  int64   `json:"timestamp"`
}
