package stream

import (
	"sync"
	"testing"
	"time"

	"github.com/sultanavtajev/simpleperf/perf/common"
)

// TestSamplerDeltasSumToTotal tests that the per-observation deltas of a
// live transfer add up to the session's final byte count - no bytes double
// counted or dropped
func TestSamplerDeltasSumToTotal(t *testing.T) {
	clientConn, serverConn := loopbackPair(t)

	receiver := NewConnection(1, "server", serverConn, RoleReceiver)
	go receiver.RunReceiver(32 * 1024)

	session := NewSession(1)
	defer session.Close()

	const budget = 2000000
	sender := NewConnection(1, "client", clientConn, RoleSender)
	session.Add(sender)
	session.Start()

	sampler := NewSampler(session, time.Second, nil)

	doneCh := make(chan common.ConnResult, 1)
	go func() {
		doneCh <- sender.RunSender(SendPlan{ChunkSize: 16 * 1024, Budget: budget})
	}()

	// Observe a few times while the transfer runs, once more after it ends
	var deltaSum int64
	var prev common.Measurement
	for i := 0; i < 3; i++ {
		time.Sleep(5 * time.Millisecond)
		m := sampler.Observe(time.Now())

		if m.Bytes < 0 {
			t.Errorf("observation %d: negative delta %d (counter decreased)", i, m.Bytes)
		}
		if m.From != prev.To {
			t.Errorf("observation %d: From = %v, want previous To %v", i, m.From, prev.To)
		}

		deltaSum += m.Bytes
		prev = m
	}

	sent := <-doneCh
	if sent.Err != nil {
		t.Fatalf("sender failed: %v", sent.Err)
	}

	deltaSum += sampler.Observe(time.Now()).Bytes

	if deltaSum != budget {
		t.Errorf("sum of deltas = %d, want final total %d", deltaSum, budget)
	}
	if session.Bytes() != budget {
		t.Errorf("session total = %d, want %d", session.Bytes(), budget)
	}
}

// TestSamplerBaseline tests that the first observation is measured against
// zero bytes at session start
func TestSamplerBaseline(t *testing.T) {
	session := NewSession(1)
	defer session.Close()
	session.Start()

	sampler := NewSampler(session, time.Second, nil)
	m := sampler.Observe(time.Now())

	if m.From != 0 {
		t.Errorf("first observation From = %v, want 0 (session start)", m.From)
	}
	if m.Bytes != 0 {
		t.Errorf("first observation on idle session = %d bytes, want 0", m.Bytes)
	}
}

// TestSamplerRunCadence tests that the ticker fires at roughly the
// configured period and stops emitting once the stop channel is closed
func TestSamplerRunCadence(t *testing.T) {
	session := NewSession(1)
	defer session.Close()
	session.Start()

	var mu sync.Mutex
	var ticks []common.Measurement
	sampler := NewSampler(session, 20*time.Millisecond, func(m common.Measurement) {
		mu.Lock()
		ticks = append(ticks, m)
		mu.Unlock()
	})

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		sampler.Run(stopCh)
	}()

	time.Sleep(110 * time.Millisecond)
	close(stopCh)
	<-doneCh

	mu.Lock()
	count := len(ticks)
	mu.Unlock()

	// 110ms / 20ms with generous scheduling tolerance
	if count < 2 || count > 8 {
		t.Errorf("tick count = %d, want roughly 5", count)
	}

	// No tick may arrive after stop fired
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	after := len(ticks)
	mu.Unlock()

	if after != count {
		t.Errorf("ticks continued after stop: %d -> %d", count, after)
	}
}
