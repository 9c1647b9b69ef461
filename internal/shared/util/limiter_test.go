package util

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(10, 2)

	if !l.Allow() {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow() {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow() {
		t.Error("expected third token to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow() {
		t.Error("expected token to be refilled after wait")
	}
}

func TestKeyedLimiter(t *testing.T) {
	k := NewKeyedLimiter(1, 1)

	if k.Get("a.toml") != k.Get("a.toml") {
		t.Error("expected same limiter for same key")
	}
	if !k.Allow("a.toml") {
		t.Error("expected first reload of a.toml to be allowed")
	}
	if k.Allow("a.toml") {
		t.Error("expected second immediate reload of a.toml to be limited")
	}
	if !k.Allow("b.toml") {
		t.Error("expected b.toml to have its own budget")
	}
}

func TestGetHeapAllocMB(t *testing.T) {
	buf := make([]byte, 4<<20)
	buf[0] = 1
	if GetHeapAllocMB() == 0 {
		t.Error("expected non-zero heap allocation")
	}
	_ = buf
}
