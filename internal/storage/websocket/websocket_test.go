package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/pkg/core"
	"github.com/zhstats/genrep/pkg/streaming"
)

// testServer creates an httptest server that upgrades to WebSocket,
// records received messages, and acks every message unless reject says no.
func testServer(t *testing.T, reject func(env streaming.Envelope) string) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ml.setSecret(r.URL.Query().Get("secret"))
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			ack := streaming.AckMessage{Type: streaming.TypeAck, For: env.Type}
			if reject != nil {
				ack.Error = reject(env)
			}
			data, _ := json.Marshal(ack)
			if err := c.WriteMessage(ws.TextMessage, data); err != nil {
				return
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	messages []streaming.Envelope
	secret   string
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) setSecret(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = s
}

func (m *messageLog) getSecret() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secret
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]streaming.Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBatchLifecycle(t *testing.T) {
	srv, ml := testServer(t, nil)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "test", Source: "genrep"}, nil)
	require.NoError(t, b.Init())

	require.NoError(t, b.Store(&core.Record{Path: "a.rep", MatchType: "1v1"}))
	require.NoError(t, b.Store(&core.Record{Path: "b.rep", MatchType: "2v2"}))
	assert.Equal(t, 2, b.Stored())
	require.NoError(t, b.Close())

	msgs := ml.all()
	require.Len(t, msgs, 4)
	assert.Equal(t, streaming.TypeStartBatch, msgs[0].Type)
	assert.Equal(t, streaming.TypeRecord, msgs[1].Type)
	assert.Equal(t, streaming.TypeEndBatch, msgs[3].Type)
	assert.Equal(t, "test", ml.getSecret())

	var rec core.Record
	require.NoError(t, json.Unmarshal(msgs[2].Payload, &rec))
	assert.Equal(t, "b.rep", rec.Path)

	var end streaming.EndBatchPayload
	require.NoError(t, json.Unmarshal(msgs[3].Payload, &end))
	assert.Equal(t, 2, end.Records)
}

func TestStore_Rejected(t *testing.T) {
	srv, _ := testServer(t, func(env streaming.Envelope) string {
		if env.Type == streaming.TypeRecord {
			return "duplicate"
		}
		return ""
	})
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	err := b.Store(&core.Record{Path: "a.rep"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
	assert.Equal(t, 0, b.Stored())
}

func TestStore_AckTimeout(t *testing.T) {
	upgrader := ws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), AckTimeout: 50 * time.Millisecond}, nil)
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for ack")
	b.conn.close()
}

func TestInit_DialFails(t *testing.T) {
	b := New(Config{URL: "ws://127.0.0.1:1/records"}, nil)
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket dial failed")
}

func TestMarshalEnvelope(t *testing.T) {
	data, err := marshalEnvelope(streaming.TypeEndBatch, streaming.EndBatchPayload{Records: 3})
	require.NoError(t, err)

	var decoded streaming.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, streaming.TypeEndBatch, decoded.Type)
	assert.JSONEq(t, `{"records":3}`, string(decoded.Payload))
}

func TestWithSecret(t *testing.T) {
	got, err := withSecret("ws://collector:8080/records?batch=1", "s3 cret")
	require.NoError(t, err)
	assert.Equal(t, "ws://collector:8080/records?batch=1&secret=s3+cret", got)

	_, err = withSecret("ws://[::1", "x")
	assert.Error(t, err)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(minBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(20*time.Second))
	assert.Equal(t, maxBackoff, nextBackoff(maxBackoff))
}
