package log

import (
	"crypto/tls"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var logHTTPTrace = false

// SetHTTPTrace - enables the connection trace of api requests when the level is trace
func SetHTTPTrace(enabled bool) {
	logHTTPTrace = enabled
}

// IsHTTPLogTraceEnabled -
func IsHTTPLogTraceEnabled() bool {
	return logHTTPTrace && log.GetLevel() == logrus.TraceLevel
}

// requestTrace - logs the phases of one api request with the time elapsed since it was sent
type requestTrace struct {
	start  time.Time
	logger FieldLogger
}

// WithRequestTrace - req with a client trace logging its connection phases, tagged with the request id,
// method and url
func WithRequestTrace(reqID string, req *http.Request) *http.Request {
	t := &requestTrace{
		start: time.Now(),
		logger: NewFieldLogger().
			WithComponent("requestTrace").
			WithField("requestId", reqID).
			WithField("method", req.Method).
			WithField("url", req.URL.Redacted()),
	}

	return req.WithContext(httptrace.WithClientTrace(req.Context(), &httptrace.ClientTrace{
		GotConn:              t.gotConn,
		DNSDone:              t.dnsDone,
		ConnectDone:          t.connectDone,
		TLSHandshakeDone:     t.tlsHandshakeDone,
		WroteHeaderField:     t.wroteHeaderField,
		WroteRequest:         t.wroteRequest,
		GotFirstResponseByte: t.gotFirstResponseByte,
	}))
}

func (t *requestTrace) phase() FieldLogger {
	return t.logger.WithField("elapsed(ms)", time.Since(t.start).Milliseconds())
}

func (t *requestTrace) gotConn(info httptrace.GotConnInfo) {
	logger := t.phase().WithField("reused", info.Reused)
	if info.Conn != nil {
		logger = logger.WithField("remote", info.Conn.RemoteAddr().String())
	}
	if info.WasIdle {
		logger = logger.WithField("idle(ms)", info.IdleTime.Milliseconds())
	}
	logger.Trace("connection ready")
}

func (t *requestTrace) dnsDone(info httptrace.DNSDoneInfo) {
	if info.Err != nil {
		t.phase().WithError(info.Err).Trace("pqd host lookup failed")
		return
	}
	ips := make([]string, 0, len(info.Addrs))
	for _, ip := range info.Addrs {
		ips = append(ips, ip.String())
	}
	t.phase().WithField("ips", strings.Join(ips, ",")).Trace("pqd host resolved")
}

func (t *requestTrace) connectDone(network, addr string, err error) {
	logger := t.phase().WithField("addr", network+"://"+addr)
	if err != nil {
		logger.WithError(err).Trace("connect failed")
		return
	}
	logger.Trace("connected")
}

func (t *requestTrace) tlsHandshakeDone(state tls.ConnectionState, err error) {
	if err != nil {
		t.phase().WithError(err).Trace("tls handshake failed")
		return
	}
	t.phase().
		WithField("serverName", state.ServerName).
		WithField("tlsVersion", tls.VersionName(state.Version)).
		Trace("tls handshake done")
}

func (t *requestTrace) wroteHeaderField(key string, value []string) {
	t.logger.WithField("header", key).WithField("value", headerValue(key, value)).Trace("header sent")
}

func (t *requestTrace) wroteRequest(info httptrace.WroteRequestInfo) {
	if info.Err != nil {
		t.phase().WithError(info.Err).Trace("sending request failed")
		return
	}
	t.phase().Trace("request sent")
}

func (t *requestTrace) gotFirstResponseByte() {
	t.phase().Trace("response started")
}

// headerValue - the header value as logged, credentials and anything named like a sensitive field are masked
func headerValue(key string, value []string) string {
	name := strings.ToLower(key)
	if name == "authorization" || name == "cookie" || name == "proxy-authorization" {
		return redacted
	}
	for _, field := range SensitiveFields {
		if strings.Contains(name, field) {
			return redacted
		}
	}
	return strings.Join(value, ",")
}
