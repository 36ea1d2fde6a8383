package matcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/RideMatch1/qubic-church-sub003/internal/corpus"
	"github.com/RideMatch1/qubic-church-sub003/internal/derive"
	"github.com/RideMatch1/qubic-church-sub003/internal/seed"
)

const (
	emptyUncompressedAddr = "1HZwkjkeaoZfTSaJxDw6aKkxp45agDiEzN"
	emptyCompressedAddr   = "1F3sAm6ZtwLAUnj7d38pGFxtP3RVEvtsbV"
	emptyCompressedPub    = "03a34b99f22c790c4e36b2b3c2c35a36db06226e41c692fc82b8b56ac1c540c5bd"
)

func buildCorpus(t *testing.T, moduli []int, addrs ...string) *corpus.Corpus {
	t.Helper()
	b := corpus.NewBuilder(moduli...)
	for _, a := range addrs {
		if err := b.AddAddress(a, "ref "+a[:6]); err != nil {
			t.Fatalf("add %s: %v", a, err)
		}
	}
	return b.Build()
}

func TestRunExactMatchByAddress(t *testing.T) {
	c := buildCorpus(t, nil, emptyUncompressedAddr)
	m := New(c, WithWorkers(2))

	results := m.Run(context.Background(), []Candidate{
		{Passphrase: nil, Scheme: derive.Scheme{Kind: derive.SingleHash}},
	})
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	r := results[0]
	if r.Status != StatusExact {
		t.Fatalf("status = %v, err = %v", r.Status, r.Err)
	}
	if r.MatchedAddress != emptyUncompressedAddr {
		t.Fatalf("matched = %s", r.MatchedAddress)
	}
	if r.CompressedAddress != emptyCompressedAddr || r.UncompressedAddress != emptyUncompressedAddr {
		t.Fatalf("addresses = %s / %s", r.CompressedAddress, r.UncompressedAddress)
	}
}

func TestRunExactMatchByPublicKey(t *testing.T) {
	b := corpus.NewBuilder()
	if err := b.AddPublicKeyHex(emptyCompressedPub, "known pubkey"); err != nil {
		t.Fatalf("add pubkey: %v", err)
	}
	m := New(b.Build())

	results := m.Run(context.Background(), []Candidate{
		{Scheme: derive.Scheme{Kind: derive.SingleHash}},
	})
	if results[0].Status != StatusExact {
		t.Fatalf("status = %v", results[0].Status)
	}
	if results[0].MatchedLabel != "known pubkey" {
		t.Fatalf("label = %q", results[0].MatchedLabel)
	}
}

func TestRunNearMatchBySumInvariant(t *testing.T) {
	// Reference hash160 byte-sum 2940; candidate "satoshi" single-hash has
	// compressed sum 2535 and uncompressed sum 2503. Only 2535 shares a
	// residue mod 9 with 2940.
	c := buildCorpus(t, []int{9}, "1GdoSJzPwJB7tGsd2HzCyRWXwSicDW3mRv")
	m := New(c)

	results := m.Run(context.Background(), []Candidate{
		{Passphrase: []byte("satoshi"), Scheme: derive.Scheme{Kind: derive.SingleHash}},
	})
	r := results[0]
	if r.Status != StatusNearSum {
		t.Fatalf("status = %v", r.Status)
	}
	if r.Modulus != 9 || r.Distance != 405 {
		t.Fatalf("modulus = %d, distance = %d", r.Modulus, r.Distance)
	}
	if r.MatchedAddress != "1GdoSJzPwJB7tGsd2HzCyRWXwSicDW3mRv" {
		t.Fatalf("matched = %s", r.MatchedAddress)
	}
}

func TestRunNoMatch(t *testing.T) {
	// Corpus sum 2151 (residue 0 mod 9); candidate residues are 6 and 1.
	c := buildCorpus(t, []int{9}, emptyCompressedAddr)
	m := New(c)

	results := m.Run(context.Background(), []Candidate{
		{Passphrase: []byte("satoshi"), Scheme: derive.Scheme{Kind: derive.SingleHash}},
	})
	r := results[0]
	if r.Status != StatusNoMatch {
		t.Fatalf("status = %v", r.Status)
	}
	if r.CompressedAddress == "" || r.UncompressedAddress == "" {
		t.Fatal("no-match results still carry the derived addresses")
	}
}

func TestRunInvalidCandidateDoesNotAbortBatch(t *testing.T) {
	c := buildCorpus(t, nil, emptyUncompressedAddr)
	m := New(c, WithWorkers(1))

	results := m.Run(context.Background(), []Candidate{
		{Qubic: "tooshort", Scheme: derive.Scheme{Kind: derive.DoubleSponge}},
		{Qubic: strings.Repeat("a", 54) + "X", Scheme: derive.Scheme{Kind: derive.DoubleSponge}},
		{Passphrase: []byte("plain text"), Scheme: derive.Scheme{Kind: derive.DoubleSponge}},
		{Passphrase: nil, Scheme: derive.Scheme{Kind: derive.SingleHash}},
	})

	if !errors.Is(results[0].Err, seed.ErrInvalidLength) || results[0].Status != StatusInvalid {
		t.Fatalf("result 0 = %+v", results[0])
	}
	var charErr *seed.InvalidCharacterError
	if !errors.As(results[1].Err, &charErr) || charErr.Position != 54 {
		t.Fatalf("result 1 err = %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, derive.ErrSchemeSeedMismatch) {
		t.Fatalf("result 2 err = %v", results[2].Err)
	}
	if results[3].Status != StatusExact {
		t.Fatalf("result 3 = %+v", results[3])
	}
}

func sameOutcome(a, b Result) bool {
	return a.Status == b.Status &&
		a.CompressedAddress == b.CompressedAddress &&
		a.UncompressedAddress == b.UncompressedAddress &&
		a.MatchedAddress == b.MatchedAddress &&
		a.Modulus == b.Modulus &&
		a.Distance == b.Distance
}

func TestRunIsIdempotentAndOrderIndependent(t *testing.T) {
	c := buildCorpus(t, []int{9}, emptyUncompressedAddr, "1GdoSJzPwJB7tGsd2HzCyRWXwSicDW3mRv")
	m := New(c, WithWorkers(4))

	candidates := []Candidate{
		{Passphrase: nil, Scheme: derive.Scheme{Kind: derive.SingleHash}},
		{Passphrase: []byte("satoshi"), Scheme: derive.Scheme{Kind: derive.SingleHash}},
		{Passphrase: []byte("satoshi"), Scheme: derive.Scheme{Kind: derive.DoubleHash}},
		{Qubic: strings.Repeat("q", 55), Scheme: derive.Scheme{Kind: derive.DoubleSponge}},
	}

	first := m.Run(context.Background(), candidates)
	second := m.Run(context.Background(), candidates)
	for i := range first {
		if !sameOutcome(first[i], second[i]) {
			t.Fatalf("run not idempotent at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	permuted := []Candidate{candidates[2], candidates[0], candidates[3], candidates[1]}
	third := m.Run(context.Background(), permuted)
	for i, j := range []int{2, 0, 3, 1} {
		if !sameOutcome(third[i], first[j]) {
			t.Fatalf("permutation changed outcome: %+v vs %+v", third[i], first[j])
		}
	}
}

func TestRunMemoizesDerivations(t *testing.T) {
	c := buildCorpus(t, nil, emptyUncompressedAddr)
	m := New(c, WithWorkers(2))

	same := Candidate{Passphrase: []byte("repeated"), Scheme: derive.Scheme{Kind: derive.DoubleHash}}
	m.Run(context.Background(), []Candidate{same, same, same, same})

	m.memo.mu.RLock()
	entries := len(m.memo.keys)
	m.memo.mu.RUnlock()
	if entries != 1 {
		t.Fatalf("memo entries = %d, want 1", entries)
	}
}

func TestRunCancelledContext(t *testing.T) {
	c := buildCorpus(t, nil, emptyUncompressedAddr)
	m := New(c, WithWorkers(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := m.Run(ctx, []Candidate{
		{Passphrase: []byte("a"), Scheme: derive.Scheme{Kind: derive.SingleHash}},
		{Passphrase: []byte("b"), Scheme: derive.Scheme{Kind: derive.SingleHash}},
	})
	for i, r := range results {
		if r.Status != StatusInvalid || !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("result %d = %+v", i, r)
		}
	}
}

func TestRunCountsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c := buildCorpus(t, nil, emptyUncompressedAddr)
	m := New(c, WithMetrics(metrics))

	m.Run(context.Background(), []Candidate{
		{Scheme: derive.Scheme{Kind: derive.SingleHash}},
		{Passphrase: []byte("nobody has this"), Scheme: derive.Scheme{Kind: derive.SingleHash}},
		{Qubic: "bad", Scheme: derive.Scheme{Kind: derive.DoubleSponge}},
	})

	if got := testutil.ToFloat64(metrics.candidates); got != 3 {
		t.Fatalf("candidates counter = %v", got)
	}
	if got := testutil.ToFloat64(metrics.results.WithLabelValues("exact")); got != 1 {
		t.Fatalf("exact counter = %v", got)
	}
	if got := testutil.ToFloat64(metrics.results.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid counter = %v", got)
	}
}
