package log

import (
	"fmt"
	"regexp"
)

const redacted = "**********"

// SensitiveFields are the json keys masked whenever a request or response body is logged
var SensitiveFields = []string{"password", "token", "jwt"}

// ObscureArguments obscure/mask/redact values for a set of trailing arguments
func ObscureArguments(redactedFields []string, args ...interface{}) []interface{} {
	var obscuredParams []interface{}
	for _, arg := range args {
		var s string
		switch v := arg.(type) {
		case []byte:
			s = string(v)
		default:
			s = fmt.Sprintf("%v", v)
		}
		obscuredParams = append(obscuredParams, obscureParams(s, redactedFields))
	}
	return obscuredParams
}

// obscureParams obscure/mask/redact a set of values in a json string
func obscureParams(jsn string, sensitiveParams []string) string {
	for _, param := range sensitiveParams {
		jsn = obscureParam(jsn, param)
	}
	return jsn
}

// obscureParam obscure/mask/redact a string value in a json string
func obscureParam(jsn string, param string) string {
	r := regexp.MustCompile(`"` + regexp.QuoteMeta(param) + `"\s*:\s*"(?:[^"\\]|\\.)*"`)
	return r.ReplaceAllString(jsn, `"`+param+`":"`+redacted+`"`)
}
