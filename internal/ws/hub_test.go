package ws

import (
	"log/slog"
	"testing"
	"time"
)

func recv(t *testing.T, name string, ch <-chan []byte) string {
	t.Helper()
	select {
	case got := <-ch:
		return string(got)
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting %s", name)
	}
	return ""
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	c1 := &Client{Send: make(chan []byte, 1)}
	c2 := &Client{Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	h.Broadcast("", []byte("hello"))

	if got := recv(t, "c1", c1.Send); got != "hello" {
		t.Fatalf("c1 got %q", got)
	}
	if got := recv(t, "c2", c2.Send); got != "hello" {
		t.Fatalf("c2 got %q", got)
	}
}

func TestHub_BroadcastFiltersByCompany(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	all := &Client{Send: make(chan []byte, 2)}
	alfa := &Client{CompanyID: "alfa", Send: make(chan []byte, 2)}
	beta := &Client{CompanyID: "beta", Send: make(chan []byte, 2)}
	h.Register(all)
	h.Register(alfa)
	h.Register(beta)

	h.Broadcast("alfa", []byte("dd-alfa"))
	h.Broadcast("beta", []byte("dd-beta"))

	if got := recv(t, "all#1", all.Send); got != "dd-alfa" {
		t.Fatalf("all got %q", got)
	}
	if got := recv(t, "all#2", all.Send); got != "dd-beta" {
		t.Fatalf("all got %q", got)
	}
	if got := recv(t, "alfa", alfa.Send); got != "dd-alfa" {
		t.Fatalf("alfa got %q", got)
	}
	if got := recv(t, "beta", beta.Send); got != "dd-beta" {
		t.Fatalf("beta got %q", got)
	}
	select {
	case got := <-alfa.Send:
		t.Fatalf("alfa received foreign event %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	slow := &Client{Send: make(chan []byte)} // sem buffer: nunca aceita
	h.Register(slow)
	h.Broadcast("", []byte("x"))

	// não lê de slow.Send antes do drop: um receptor pronto faria o envio passar
	deadline := time.Now().Add(500 * time.Millisecond)
	for h.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, ok := <-slow.Send; ok {
		t.Fatal("expected closed channel")
	}
}

func TestHub_AfterStop(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	h.Stop()

	if h.Register(&Client{Send: make(chan []byte, 1)}) {
		t.Fatal("register after stop must fail")
	}

	done := make(chan struct{})
	go func() {
		// mais que o buffer de 1024 do hub
		for i := 0; i < 2000; i++ {
			h.Broadcast("", []byte("x"))
			h.SendToClient("c1", []byte("x"))
		}
		h.Unregister(&Client{ID: "c1"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after stop")
	}
}
