package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/httputil"
	"github.com/atriumhq/atrium/internal/registry"
)

func gatewayStub(t *testing.T, handler http.HandlerFunc) *Module {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestSearchParsesGatewayResults(t *testing.T) {
	var gotQuery string
	var gotUserID string
	m := gatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.Header.Get(httputil.UserIDHeader)
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		gotQuery, _ = payload["query"].(string)

		w.Write([]byte(`{
			"results": [
				{"id": "n-1", "title": "Meeting notes", "url": "/files/n-1/", "snippet": "notes from the planning meeting"},
				{"id": "m-2", "title": "Re: planning", "url": "/mail/message/m-2/", "snippet": "planning thread"}
			]
		}`))
	})

	got, err := m.Search(context.Background(), "planning", registry.User("dave"), 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "planning" || gotUserID != "dave" {
		t.Fatalf("gateway saw query=%q user=%q", gotQuery, gotUserID)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "n-1" || got[0].DisplayName != "Meeting notes" || got[0].MatchType != "semantic" {
		t.Fatalf("unexpected first result: %+v", got[0])
	}
	if got[1].TargetURL != "/mail/message/m-2/" {
		t.Fatalf("unexpected second result: %+v", got[1])
	}
}

func TestSearchGatewayErrorStatus(t *testing.T) {
	m := gatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model overloaded"))
	})

	if _, err := m.Search(context.Background(), "x", registry.User("dave"), 5); err == nil {
		t.Fatal("expected gateway error to propagate to the fan-out boundary")
	}
}

func TestSearchMalformedGatewayResponse(t *testing.T) {
	m := gatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	if _, err := m.Search(context.Background(), "x", registry.User("dave"), 5); err == nil {
		t.Fatal("expected missing results field to be an error")
	}
}

func TestRegisterWithoutGatewayIsInactive(t *testing.T) {
	reg := registry.New()
	m := New("")

	if err := m.Register(reg, config.ModuleSettings{Enabled: true, Order: 50}); err != nil {
		t.Fatalf("register: %v", err)
	}

	d, ok := reg.Get("assistant")
	if !ok {
		t.Fatal("expected assistant to be registered")
	}
	if d.Active {
		t.Fatal("expected assistant to be inactive without a gateway")
	}
	if d.URL != "" {
		t.Fatalf("expected planned module to have no URL, got %q", d.URL)
	}

	// Inactive module must be excluded from search even though a
	// provider is bound.
	if got := reg.Search(context.Background(), "anything", registry.User("u1"), 10); len(got) != 0 {
		t.Fatalf("expected no results from inactive module, got %+v", got)
	}
}

func TestRegisterWithGatewayIsActive(t *testing.T) {
	reg := registry.New()
	m := gatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})

	if err := m.Register(reg, config.ModuleSettings{Enabled: true, Order: 50}); err != nil {
		t.Fatalf("register: %v", err)
	}

	d, _ := reg.Get("assistant")
	if !d.Active || d.URL != "/assistant/" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}
