package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

func newTestServer(t *testing.T, model map[string]any) (*Server, *ripple.Object, *httptest.Server) {
	t.Helper()
	srv := New()
	obj, err := ripple.Watch(model, srv.Sink())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	srv.Observe(obj)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, obj, ts
}

func getJSON(t *testing.T, url string, into any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode %s failed: %v", url, err)
	}
}

func TestModelEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t, map[string]any{
		"count": 3,
		"user":  map[string]any{"name": "ada"},
		"double": ripple.Fn(func(o *ripple.Object) any {
			return o.Get("count")
		}),
	})

	var snap map[string]any
	getJSON(t, ts.URL+"/model", &snap)

	if snap["count"] != float64(3) {
		t.Errorf("count = %v, want 3", snap["count"])
	}
	if _, ok := snap["double"]; ok {
		t.Error("snapshot endpoint should omit derived functions")
	}
	user, ok := snap["user"].(map[string]any)
	if !ok || user["name"] != "ada" {
		t.Errorf("user = %v", snap["user"])
	}
}

func TestDepsEndpoint(t *testing.T) {
	_, obj, ts := newTestServer(t, map[string]any{
		"a": 1,
		"sum": ripple.Fn(func(o *ripple.Object) any {
			return o.Get("a")
		}),
	})

	if _, err := obj.Call("sum"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	var deps map[string][]string
	getJSON(t, ts.URL+"/deps", &deps)
	if got := deps["a"]; len(got) != 1 || got[0] != "sum" {
		t.Errorf("deps[a] = %v, want [sum]", got)
	}
}

func TestNoModelAttached(t *testing.T) {
	srv := New()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/model")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestWebsocketConsumerTeardown(t *testing.T) {
	srv, _, ts := newTestServer(t, map[string]any{"a": 1})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.size() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("consumer never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Dropping the connection must unregister the consumer; otherwise
	// broadcasts keep feeding a queue nobody drains.
	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for srv.hub.size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("consumer never unregistered after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebsocketStream(t *testing.T) {
	srv, obj, ts := newTestServer(t, map[string]any{
		"a": 1,
		"sum": ripple.Fn(func(o *ripple.Object) any {
			return o.Get("a")
		}),
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the consumer before mutating.
	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.size() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("consumer never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := obj.Call("sum"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if err := obj.Set("a", 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var mutation Event
	if err := conn.ReadJSON(&mutation); err != nil {
		t.Fatalf("read mutation failed: %v", err)
	}
	if mutation.Key != "a" || mutation.Op != "update" || mutation.New != float64(2) {
		t.Errorf("unexpected mutation event: %+v", mutation)
	}

	var pulse Event
	if err := conn.ReadJSON(&pulse); err != nil {
		t.Fatalf("read pulse failed: %v", err)
	}
	if pulse.Key != "sum" || !pulse.Pulse || pulse.Op != "" {
		t.Errorf("unexpected pulse event: %+v", pulse)
	}
}
