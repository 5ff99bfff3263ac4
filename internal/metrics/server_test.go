// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// freePort grabs an ephemeral port for the listener under test.
func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestServerServesHealthzAndMetrics(t *testing.T) {
	addr := freePort(t)
	srv := NewServer(addr, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	// Record something so /metrics has a listarr series to show.
	ItemsAdded.WithLabelValues("show").Inc()

	base := fmt.Sprintf("http://%s", addr)
	var body string
	for i := 0; i < 50; i++ {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			time.Sleep(20 * time.Millisecond)
			continue
		}
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		body = string(b)
		break
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("healthz body = %q", body)
	}

	resp, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(b), "listarr_items_added_total") {
		t.Error("metrics output is missing listarr series")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && err != context.Canceled {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Serve did not stop after cancel")
	}
}

func TestServerString(t *testing.T) {
	if got := NewServer(":0", zerolog.Nop()).String(); got != "metrics-server" {
		t.Errorf("String() = %q", got)
	}
}
