// Package matcher evaluates candidate (seed, scheme) pairs against a
// reference corpus and classifies every derived address.
package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/RideMatch1/qubic-church-sub003/internal/address"
	"github.com/RideMatch1/qubic-church-sub003/internal/corpus"
	"github.com/RideMatch1/qubic-church-sub003/internal/derive"
	"github.com/RideMatch1/qubic-church-sub003/internal/digest"
	"github.com/RideMatch1/qubic-church-sub003/internal/keys"
	"github.com/RideMatch1/qubic-church-sub003/internal/platform/progress"
	"github.com/RideMatch1/qubic-church-sub003/internal/seed"
)

// Candidate is one unit of work: seed material in one of the two raw shapes,
// plus the scheme to derive it under. A non-empty Qubic field selects the
// Qubic shape; its validation happens during the run so a malformed seed
// becomes a per-candidate result, not a batch failure.
type Candidate struct {
	Passphrase []byte
	Qubic      string
	Scheme     derive.Scheme
}

func (c Candidate) normalize() (seed.Seed, error) {
	if c.Qubic != "" {
		return seed.ParseQubic(c.Qubic)
	}
	return seed.NewPassphrase(c.Passphrase), nil
}

// Status classifies one candidate against the corpus.
type Status uint8

const (
	StatusNoMatch Status = iota
	StatusExact
	StatusNearSum
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusNoMatch:
		return "no-match"
	case StatusExact:
		return "exact"
	case StatusNearSum:
		return "near-sum"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Result is the immutable outcome for one candidate, in candidate input
// order. Err is set exactly when Status is StatusInvalid and tells malformed
// candidates apart from valid ones that simply did not match.
type Result struct {
	Candidate           Candidate
	Status              Status
	CompressedAddress   string
	UncompressedAddress string
	MatchedAddress      string
	MatchedLabel        string
	Modulus             int
	Distance            int
	Err                 error
}

// Matcher runs candidate batches against one shared corpus. Construct once,
// reuse across runs; the memo cache carries over.
type Matcher struct {
	corpus   *corpus.Corpus
	version  byte
	workers  int
	logger   *slog.Logger
	metrics  *Metrics
	reporter func(total int64) *progress.Reporter
	memo     memoCache
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWorkers sets the worker pool size; values below 1 keep the default.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithVersion sets the address version byte derived candidates are encoded
// under. Defaults to Bitcoin mainnet P2PKH.
func WithVersion(version byte) Option {
	return func(m *Matcher) { m.version = version }
}

// WithLogger enables rate-limited progress logging during runs.
func WithLogger(log *slog.Logger) Option {
	return func(m *Matcher) { m.logger = log }
}

// WithMetrics attaches result counters.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Matcher) { m.metrics = metrics }
}

// New creates a matcher over a corpus. The corpus is treated as read-only
// and shared by reference across all workers.
func New(c *corpus.Corpus, opts ...Option) *Matcher {
	m := &Matcher{
		corpus:  c,
		version: address.MainnetP2PKH,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reporter = func(total int64) *progress.Reporter {
		return progress.New(m.logger, 2, total)
	}
	return m
}

// Run evaluates every candidate and returns results in candidate order.
// Cancelling the context stops dispatching new candidates; already-dispatched
// evaluations finish (they are microseconds each) and unprocessed candidates
// carry the context error as an invalid status.
func (m *Matcher) Run(ctx context.Context, candidates []Candidate) []Result {
	results := make([]Result, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	workers := m.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	report := m.reporter(int64(len(candidates)))
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.evaluate(candidates[i])
				m.metrics.observe(results[i].Status)
				report.Add(1)
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range candidates {
		select {
		case <-ctx.Done():
			break dispatch
		default:
		}
		select {
		case jobs <- i:
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(candidates); i++ {
		results[i] = Result{Candidate: candidates[i], Status: StatusInvalid, Err: ctx.Err()}
	}
	report.Finish()
	return results
}

func (m *Matcher) evaluate(cand Candidate) Result {
	res := Result{Candidate: cand}

	sd, err := cand.normalize()
	if err != nil {
		res.Status = StatusInvalid
		res.Err = err
		return res
	}

	priv, err := m.derivePrivateKey(sd, cand.Scheme)
	if err != nil {
		res.Status = StatusInvalid
		res.Err = err
		return res
	}

	pub, err := keys.FromPrivateKey(priv)
	if err != nil {
		res.Status = StatusInvalid
		res.Err = err
		return res
	}

	comp := pub.Compressed()
	unc := pub.Uncompressed()
	res.CompressedAddress = address.FromPublicKeyEncoding(comp[:], m.version)
	res.UncompressedAddress = address.FromPublicKeyEncoding(unc[:], m.version)

	if rec, ok := m.exactMatch(res.CompressedAddress, res.UncompressedAddress, comp[:], unc[:]); ok {
		res.Status = StatusExact
		res.MatchedAddress = rec.Address
		res.MatchedLabel = rec.Label
		return res
	}

	if rec, modulus, distance, ok := m.nearMatch(comp[:], unc[:]); ok {
		res.Status = StatusNearSum
		res.MatchedAddress = rec.Address
		res.MatchedLabel = rec.Label
		res.Modulus = modulus
		res.Distance = distance
		return res
	}

	res.Status = StatusNoMatch
	return res
}

func (m *Matcher) exactMatch(compAddr, uncAddr string, comp, unc []byte) (corpus.Record, bool) {
	if rec, ok := m.corpus.LookupAddress(compAddr); ok {
		return rec, true
	}
	if rec, ok := m.corpus.LookupAddress(uncAddr); ok {
		return rec, true
	}
	if rec, ok := m.corpus.LookupPubKey(comp); ok {
		return rec, true
	}
	if rec, ok := m.corpus.LookupPubKey(unc); ok {
		return rec, true
	}
	return corpus.Record{}, false
}

func (m *Matcher) nearMatch(comp, unc []byte) (corpus.Record, int, int, bool) {
	compHash := digest.Hash160(comp)
	uncHash := digest.Hash160(unc)

	rec, modulus, distance, ok := m.corpus.NearestBySum(byteSum(compHash))
	uncRec, uncModulus, uncDistance, uncOK := m.corpus.NearestBySum(byteSum(uncHash))
	if uncOK && (!ok || uncDistance < distance) {
		rec, modulus, distance, ok = uncRec, uncModulus, uncDistance, true
	}
	return rec, modulus, distance, ok
}

func byteSum(h [20]byte) int {
	sum := 0
	for _, v := range h {
		sum += int(v)
	}
	return sum
}
