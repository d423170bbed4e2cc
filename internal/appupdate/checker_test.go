package appupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name":"` + tag + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckUpdateAvailable(t *testing.T) {
	server := newReleaseServer(t, "v1.2.0")

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.1.3",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.UpdateAvailable {
		t.Error("expected update to be flagged")
	}
	if result.LatestVersion != "v1.2.0" || result.CurrentVersion != "v1.1.3" {
		t.Errorf("result = %+v", result)
	}
}

func TestCheckUpToDate(t *testing.T) {
	server := newReleaseServer(t, "1.1.3")

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "1.1.3",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.UpdateAvailable {
		t.Error("same version must not be flagged")
	}
}

func TestCheckDevBuildSkipsNetwork(t *testing.T) {
	// No server: a dev version must short-circuit before any request.
	result, err := Check(context.Background(), CheckOptions{CurrentVersion: "dev"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.UpdateAvailable || result.LatestVersion != "" {
		t.Errorf("result = %+v", result)
	}
}

func TestCheckRejectsPrereleaseTag(t *testing.T) {
	server := newReleaseServer(t, "v2.0.0-rc.1")

	_, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.0.0",
		LatestReleaseURL: server.URL,
	})
	if err == nil {
		t.Fatal("prerelease tag must not count as a stable release")
	}
}

func TestCheckHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	_, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.0.0",
		LatestReleaseURL: server.URL,
	})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestNormalizeReleaseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.2.3", "v1.2.3"},
		{"1.2.3", "v1.2.3"},
		{" v1.2.3 ", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"dev", ""},
		{"", ""},
		{"v1.2.3-beta.1", ""},
		{"v1.2.3+build.5", ""},
	}
	for _, tt := range tests {
		if got := normalizeReleaseVersion(tt.in); got != tt.want {
			t.Errorf("normalizeReleaseVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
