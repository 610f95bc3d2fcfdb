package ratelimit

import (
	"net/http"
	"testing"
)

func TestConfigMatch(t *testing.T) {
	c := NewConfig(60, 6000)
	defer c.Close()

	tests := []struct {
		method string
		path   string
		want   string // tier name, "" for exempt
	}{
		{http.MethodGet, "/api/health", ""},
		{http.MethodGet, "/api/notes", "read"},
		{http.MethodGet, "/api/notes/1/attachments/x.pdf", "read"},
		{http.MethodPost, "/api/notes", "write"},
		{http.MethodPut, "/api/notes/1", "write"},
		{http.MethodDelete, "/api/docs/1", "write"},
		{http.MethodPost, "/api/notes/1/views", "write"},
		{http.MethodOptions, "/api/notes", ""},
	}
	for _, tt := range tests {
		tier := c.Match(tt.method, tt.path)
		got := ""
		if tier != nil {
			got = tier.Name
		}
		if got != tt.want {
			t.Errorf("Match(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestConfigDisabledTier(t *testing.T) {
	c := NewConfig(0, 6000)
	defer c.Close()

	if tier := c.Match(http.MethodPost, "/api/notes"); tier != nil {
		t.Errorf("disabled write tier matched: %+v", tier)
	}
	if tier := c.Match(http.MethodGet, "/api/notes"); tier == nil {
		t.Error("read tier should stay active")
	}
}

func TestConfigBurstSizing(t *testing.T) {
	c := NewConfig(60, 6000)
	defer c.Close()

	if c.Write.Limiter.burst != 10 {
		t.Errorf("write burst = %d, want 10", c.Write.Limiter.burst)
	}
	if c.Read.Limiter.burst != 1000 {
		t.Errorf("read burst = %d, want 1000", c.Read.Limiter.burst)
	}
}

func TestBuildKey(t *testing.T) {
	if got := BuildKey("1.2.3.4", "write"); got != "ip:1.2.3.4:write" {
		t.Errorf("BuildKey = %q", got)
	}
}
