package payidvalidator

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/everFinance/payid-validator/schema"
)

const (
	LabelResponseTime  = "Response Time"
	LabelStatusCode    = "HTTP Status Code"
	LabelAllowOrigin   = "Header Check / Access-Control-Allow-Origin"
	LabelAllowMethods  = "Header Check / Access-Control-Allow-Methods"
	LabelAllowHeaders  = "Header Check / Access-Control-Allow-Headers"
	LabelExposeHeaders = "Header Check / Access-Control-Expose-Headers"
	LabelCacheControl  = "Header Check / Cache-Control"
	LabelContentType   = "Content Type"
)

const (
	MsgSlowResponse     = "If the request attempt took more than 5 seconds to complete, it was aborted."
	MsgHeaderMissing    = "The header could not be located in the response."
	MsgHeaderIncorrect  = "The header has an incorrect value."
	MsgOptionsViaProbe  = "Method [OPTIONS] was found via a secondary OPTIONS pre-flight request."
	MsgNoPayIdVersion   = "The [PayID-Version] header was not specified."
	MsgCacheMissing     = "The header was not set in the response."
	MsgCacheNoStore     = `The header value is not correct. Expected value "no-store".`
	MsgContentMissing   = "The header was not sent in the response."
	MsgContentIncorrect = "The value of [application/json] or other variants could not be found."
)

const slowResponse = 5 * time.Second

var (
	requiredMethods = []string{http.MethodPost, http.MethodGet, http.MethodOptions}
	exposedHeaders  = []string{"PayID-Version", "PayID-Server-Version"}

	contentTypeRegexp = regexp.MustCompile(`(?i)^application/[\w-]*\+?json`)
)

// headerLine joins repeated header fields the way they would be folded on
// the wire. ok is false when the header is absent.
func headerLine(h http.Header, key string) (string, bool) {
	values := h.Values(key)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ", "), true
}

// splitList splits a comma separated header value into trimmed, lower-cased
// items.
func splitList(line string) map[string]struct{} {
	items := make(map[string]struct{})
	for _, item := range strings.Split(line, ",") {
		items[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return items
}

func checkResponseTime(elapsed time.Duration) schema.Verdict {
	value := strconv.FormatFloat(elapsed.Seconds(), 'f', 3, 64) + " seconds"
	if elapsed < slowResponse {
		return schema.Pass(LabelResponseTime, value)
	}
	return schema.Fail(LabelResponseTime, value, MsgSlowResponse)
}

func checkStatusCode(status int) schema.Verdict {
	value := strconv.Itoa(status)
	switch {
	case status == http.StatusOK:
		return schema.Pass(LabelStatusCode, value)
	case status >= 300 && status < 400:
		return schema.Warn(LabelStatusCode, value)
	default:
		return schema.Fail(LabelStatusCode, value)
	}
}

func checkAllowOrigin(h http.Header) schema.Verdict {
	line, ok := headerLine(h, "Access-Control-Allow-Origin")
	if !ok {
		return schema.Fail(LabelAllowOrigin, "", MsgHeaderMissing)
	}
	if strings.TrimSpace(line) != "*" {
		return schema.Fail(LabelAllowOrigin, line, MsgHeaderIncorrect)
	}
	return schema.Pass(LabelAllowOrigin, line)
}

// checkAllowMethods requires POST, GET and OPTIONS. Some servers only list
// OPTIONS on a pre-flight, so probe is asked before OPTIONS is reported missing.
func checkAllowMethods(h http.Header, probe func() bool) schema.Verdict {
	line, ok := headerLine(h, "Access-Control-Allow-Methods")
	if !ok {
		return schema.Fail(LabelAllowMethods, "", MsgHeaderMissing)
	}

	listed := splitList(line)
	var (
		missing []string
		note    string
	)
	for _, method := range requiredMethods {
		if _, ok := listed[strings.ToLower(method)]; ok {
			continue
		}
		if method == http.MethodOptions && probe != nil && probe() {
			note = MsgOptionsViaProbe
			continue
		}
		missing = append(missing, fmt.Sprintf("Method [%s] not supported.", method))
	}

	if len(missing) > 0 {
		return schema.Fail(LabelAllowMethods, line, missing...).WithNote(note)
	}
	return schema.Pass(LabelAllowMethods, line).WithNote(note)
}

func checkAllowHeaders(h http.Header) schema.Verdict {
	line, ok := headerLine(h, "Access-Control-Allow-Headers")
	if !ok {
		return schema.Fail(LabelAllowHeaders, "", MsgHeaderMissing)
	}
	if _, ok := splitList(line)["payid-version"]; !ok {
		return schema.Fail(LabelAllowHeaders, line, MsgNoPayIdVersion)
	}
	return schema.Pass(LabelAllowHeaders, line)
}

func checkExposeHeaders(h http.Header) schema.Verdict {
	line, ok := headerLine(h, "Access-Control-Expose-Headers")
	if !ok {
		return schema.Fail(LabelExposeHeaders, "", MsgHeaderMissing)
	}
	listed := splitList(line)
	var missing []string
	for _, header := range exposedHeaders {
		if _, ok := listed[strings.ToLower(header)]; !ok {
			missing = append(missing, fmt.Sprintf("Header [%s] not included.", header))
		}
	}
	if len(missing) > 0 {
		return schema.Fail(LabelExposeHeaders, line, missing...)
	}
	return schema.Pass(LabelExposeHeaders, line)
}

func checkCacheControl(h http.Header) schema.Verdict {
	line, ok := headerLine(h, "Cache-Control")
	if !ok {
		return schema.Fail(LabelCacheControl, "", MsgCacheMissing)
	}
	if !strings.Contains(strings.ToLower(line), "no-store") {
		return schema.Fail(LabelCacheControl, line, MsgCacheNoStore)
	}
	return schema.Pass(LabelCacheControl, line)
}

func checkContentType(h http.Header) schema.Verdict {
	line, ok := headerLine(h, "Content-Type")
	if !ok {
		return schema.Fail(LabelContentType, "", MsgContentMissing)
	}
	if !contentTypeRegexp.MatchString(strings.TrimSpace(line)) {
		return schema.Fail(LabelContentType, line, MsgContentIncorrect)
	}
	return schema.Pass(LabelContentType, line)
}
