package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janekbaraniewski/gateusage/internal/api"
	"github.com/janekbaraniewski/gateusage/internal/core"
)

func newTestConsole(t *testing.T, handler http.HandlerFunc) (*Console, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	session := api.NewSession(server.URL, "7", "token-abc")
	return New(api.NewClient(session)), server
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func TestSelf(t *testing.T) {
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/self" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(w, `{"success":true,"data":{"id":7,"username":"jan","quota":1000,"used_quota":250}}`)
	})

	user, err := console.Self(context.Background())
	if err != nil {
		t.Fatalf("Self: %v", err)
	}
	if user.ID != 7 || user.Username != "jan" {
		t.Errorf("user = %+v", user)
	}
	if user.Quota == nil || *user.Quota != 1000 {
		t.Errorf("quota = %v", user.Quota)
	}
}

func TestDeclaredFailureWinsOverData(t *testing.T) {
	// A success:false envelope must surface as an error even when a data
	// field is present and the HTTP status is 200.
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"success":false,"message":"token expired","data":{"id":7,"username":"stale"}}`)
	})

	_, err := console.Self(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if !apiErr.Declared || apiErr.Message != "token expired" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Error() != "token expired" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestNonOKStatusWithoutEnvelope(t *testing.T) {
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := console.Self(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Declared || apiErr.Status != http.StatusBadGateway {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestTokensPageMeta(t *testing.T) {
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("p") != "3" || q.Get("page_size") != "10" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		writeJSON(w, `{"success":true,"data":{
			"items":[{"id":1,"name":"a"},{"id":2,"name":"b"},{"bad":"row"}],
			"page":3,"page_size":10,"total":42}}`)
	})

	page, err := console.Tokens(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", page.Dropped)
	}
	if page.Page != 3 || page.PageSize != 10 || page.Total != 42 {
		t.Errorf("meta = page %d size %d total %d", page.Page, page.PageSize, page.Total)
	}
}

func TestLogsFilterQuery(t *testing.T) {
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "2" || q.Get("model_name") != "gpt-4o" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if q.Has("token_name") || q.Has("start_timestamp") || q.Has("end_timestamp") {
			t.Errorf("nil filter fields leaked into query: %q", r.URL.RawQuery)
		}
		writeJSON(w, `{"success":true,"data":{"items":[]}}`)
	})

	_, err := console.Logs(context.Background(), 1, 20, LogFilter{
		Type:      core.Int64Ptr(2),
		ModelName: core.StringPtr("gpt-4o"),
	})
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
}

func TestLoginStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want bool
	}{
		{"up", `{"success":true,"data":{}}`, 200, true},
		{"declared failure", `{"success":false,"message":"maintenance"}`, 200, false},
		{"http failure", `{}`, 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "" || r.Header.Get("Identity") != "" {
					t.Error("status probe must not send auth headers")
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})
			up, err := console.LoginStatus(context.Background())
			if err != nil {
				t.Fatalf("LoginStatus: %v", err)
			}
			if up != tt.want {
				t.Errorf("up = %v, want %v", up, tt.want)
			}
		})
	}
}

func TestQuotaData(t *testing.T) {
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_timestamp") != "100" || q.Get("end_timestamp") != "200" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		writeJSON(w, `{"success":true,"data":[
			{"created_at":150,"quota":5,"token_used":100,"count":2},
			{"quota":9}]}`)
	})

	points, dropped, err := console.QuotaData(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("QuotaData: %v", err)
	}
	if len(points) != 1 || dropped != 1 {
		t.Fatalf("points = %d dropped = %d", len(points), dropped)
	}
	if points[0].Quota != 5 || points[0].CreatedAt.Unix() != 150 {
		t.Errorf("point = %+v", points[0])
	}
}

func TestPayMethods(t *testing.T) {
	console, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"success":true,"data":[{"type":"alipay","name":"Alipay"},{"type":"wxpay"}]}`)
	})

	methods, dropped, err := console.PayMethods(context.Background())
	if err != nil {
		t.Fatalf("PayMethods: %v", err)
	}
	if len(methods) != 2 || dropped != 0 {
		t.Fatalf("methods = %d dropped = %d", len(methods), dropped)
	}
	if methods[0].Type != "alipay" {
		t.Errorf("methods[0] = %+v", methods[0])
	}
}
