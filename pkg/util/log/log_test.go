package log

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGlobalLoggerConfig(t *testing.T) {
	assert.Equal(t, STDOUT, GlobalLoggerConfig.output, "Expected default output to be STDOUT")
	assert.Equal(t, ".", GlobalLoggerConfig.path, "Expected default path to be current directory '.'")
	assert.Equal(t, logrus.InfoLevel, GlobalLoggerConfig.cfg.Level, "Expected default level to be info")
	assert.IsType(t, &logrus.JSONFormatter{}, GlobalLoggerConfig.cfg.Formatter, "Expected default formatter to be of JSON type")
}

func TestLoggerConfig(t *testing.T) {
	lc := LoggerConfig{}

	// Level
	err := lc.Level("debug1").Apply()
	assert.NotNil(t, err, "Expected an error for an invalid level type")
	lc.err = nil

	err = lc.Level("debug").Apply()
	assert.Nil(t, err, "Did not expect an error")
	lc.err = nil

	// Format
	err = lc.Format("fake").Apply()
	assert.NotNil(t, err, "Expected an error for an invalid format type")
	lc.err = nil

	err = lc.Format("line").Apply()
	assert.Nil(t, err, "Did not expect an error")
	lc.err = nil

	err = lc.Format("json").Apply()
	assert.Nil(t, err, "Did not expect an error")
	lc.err = nil

	// Output
	err = lc.Output("fake").Apply()
	assert.NotNil(t, err, "Expected an error for an invalid output type")
	lc.err = nil

	dir := t.TempDir()
	err = lc.Output("Both").Path(dir).Filename("pqd.log").Apply()
	assert.Nil(t, err, "Did not expect an error")
	assert.Equal(t, "pqd.log", lc.cfg.Filename, "Apply must not rewrite the configured file name")
	lc.err = nil

	// MaxSize
	err = lc.MaxSize(0).Apply()
	assert.NotNil(t, err, "Expected an error for an invalid max size value")
	lc.err = nil

	err = lc.MaxSize(10).Apply()
	assert.Nil(t, err, "Did not expect an error")
	lc.err = nil

	// MaxBackups
	err = lc.MaxBackups(-100).Apply()
	assert.NotNil(t, err, "Expected an error for an invalid max backups value")
	lc.err = nil

	err = lc.MaxBackups(100).Apply()
	assert.Nil(t, err, "Did not expect an error")
	lc.err = nil

	// MaxAge
	err = lc.MaxAge(-100).Apply()
	assert.NotNil(t, err, "Expected an error for an invalid max age value")
	lc.err = nil

	err = lc.MaxAge(100).Apply()
	assert.Nil(t, err, "Did not expect an error")

	// detach the file hooks and restore stdout for the remaining tests
	log.ReplaceHooks(make(logrus.LevelHooks))
	assert.Nil(t, (&LoggerConfig{}).Level("info").Format("json").Output("stdout").Apply())
}

func TestFieldLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	lc := LoggerConfig{}
	assert.Nil(t, lc.Level("debug").Format("json").Output("stdout").Writer(buf).Apply())

	NewFieldLogger().
		WithComponent("session").
		WithPackage("pqd.session").
		WithField("user", "alice").
		Debug("restored")

	out := buf.String()
	assert.Contains(t, out, `"component":"session"`)
	assert.Contains(t, out, `"package":"pqd.session"`)
	assert.Contains(t, out, `"user":"alice"`)
	assert.Contains(t, out, `"msg":"restored"`)

	assert.Nil(t, (&LoggerConfig{}).Level("info").Format("json").Output("stdout").Apply())
}

func TestObscureArguments(t *testing.T) {
	body := []byte(`{"username":"alice","password":"s3cr\"et","token":"abc","userId":7}`)

	out := ObscureArguments(SensitiveFields, body)
	assert.Len(t, out, 1)
	assert.Equal(t, `{"username":"alice","password":"**********","token":"**********","userId":7}`, out[0])

	out = ObscureArguments([]string{"jwt"}, `{"jwt": "eyJ"}`, 42)
	assert.Equal(t, `{"jwt":"**********"}`, out[0])
	assert.Equal(t, "42", out[1])
}

func TestRequestTrace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	SetHTTPTrace(false)
	assert.Nil(t, (&LoggerConfig{}).Level("trace").Format("json").Output("stdout").Apply())
	assert.False(t, IsHTTPLogTraceEnabled())

	buf := &bytes.Buffer{}
	SetHTTPTrace(true)
	defer SetHTTPTrace(false)
	assert.Nil(t, (&LoggerConfig{}).Level("trace").Format("json").Output("stdout").Writer(buf).Apply())
	assert.True(t, IsHTTPLogTraceEnabled())

	req, err := http.NewRequest(http.MethodGet, server.URL+"/product/get/all", nil)
	assert.Nil(t, err)
	req.Header.Set("Authorization", "Bearer secret-jwt")
	req.Header.Set("X-Product-Token", "secret-token")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	res, err := http.DefaultClient.Do(WithRequestTrace("req-1", req))
	assert.Nil(t, err)
	res.Body.Close()

	out := buf.String()
	assert.Contains(t, out, `"requestId":"req-1"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"msg":"connection ready"`)
	assert.Contains(t, out, `"msg":"request sent"`)
	assert.Contains(t, out, `"msg":"response started"`)
	assert.Contains(t, out, `"value":"XMLHttpRequest"`)
	assert.NotContains(t, out, "secret-jwt")
	assert.NotContains(t, out, "secret-token")

	assert.Nil(t, (&LoggerConfig{}).Level("info").Format("json").Output("stdout").Apply())
}

func TestHeaderValue(t *testing.T) {
	assert.Equal(t, redacted, headerValue("Authorization", []string{"Basic dG9rOg=="}))
	assert.Equal(t, redacted, headerValue("X-Session-Jwt", []string{"eyJ"}))
	assert.Equal(t, "application/json", headerValue("Content-Type", []string{"application/json"}))
	assert.Equal(t, "a,b", headerValue("Accept", []string{"a", "b"}))
}
