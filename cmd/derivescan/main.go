package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RideMatch1/qubic-church-sub003/internal/bootstrap/scanconfig"
	"github.com/RideMatch1/qubic-church-sub003/internal/corpus"
	"github.com/RideMatch1/qubic-church-sub003/internal/derive"
	"github.com/RideMatch1/qubic-church-sub003/internal/matcher"
	"github.com/RideMatch1/qubic-church-sub003/internal/platform/privacylog"
	"github.com/RideMatch1/qubic-church-sub003/internal/seedlist"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "Path to derivescan.yaml (optional)")
	corpusPath := flag.String("corpus", "", "Reference corpus file: address list or .json records")
	seedsPath := flag.String("seeds", "", "Candidate seed list file")
	schemes := flag.String("schemes", "", "Comma-separated scheme names (overrides config)")
	workers := flag.Int("workers", 0, "Worker pool size (0 = one per CPU)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address during the scan")
	sweep := flag.Bool("sweep", false, "Also try every configured post-transform (step, xor) pair")
	flag.Parse()
	if *showVersion {
		fmt.Printf("derivescan version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := scanconfig.LoadFromPath(*configPath)
	if *corpusPath != "" {
		cfg.CorpusPath = *corpusPath
	}
	if *seedsPath != "" {
		cfg.SeedList = *seedsPath
	}
	if *schemes != "" {
		cfg.Schemes = strings.Split(*schemes, ",")
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if !*sweep {
		cfg.SweepSteps = nil
		cfg.SweepXors = nil
	}

	logger := slog.New(privacylog.WrapHandler(slog.NewJSONHandler(os.Stderr, nil)))

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("derivescan failed: %v", err)
	}
}

func run(ctx context.Context, cfg scanconfig.Config, logger *slog.Logger) error {
	if cfg.CorpusPath == "" {
		return errors.New("no corpus file given (use -corpus or the config file)")
	}
	if cfg.SeedList == "" {
		return errors.New("no seed list given (use -seeds or the config file)")
	}

	builder := corpus.NewBuilder(cfg.Moduli...)
	if err := corpus.LoadFile(cfg.CorpusPath, builder); err != nil {
		return err
	}
	refs := builder.Build()

	entries, err := seedlist.Load(cfg.SeedList)
	if err != nil {
		return err
	}

	kinds, err := parseSchemes(cfg.Schemes)
	if err != nil {
		return err
	}
	candidates := buildCandidates(entries, kinds, cfg.SweepSteps, cfg.SweepXors)

	logger.Info("scan starting",
		"corpus_records", refs.Len(),
		"seeds", len(entries),
		"candidates", len(candidates),
		"workers", cfg.Workers,
	)

	opts := []matcher.Option{
		matcher.WithVersion(cfg.VersionByte),
		matcher.WithLogger(logger),
	}
	if cfg.Workers > 0 {
		opts = append(opts, matcher.WithWorkers(cfg.Workers))
	}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, matcher.WithMetrics(matcher.NewMetrics(reg)))
		stopMetrics := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer stopMetrics()
	}

	results := matcher.New(refs, opts...).Run(ctx, candidates)
	report(results)
	return ctx.Err()
}

func parseSchemes(names []string) ([]derive.SchemeKind, error) {
	kinds := make([]derive.SchemeKind, 0, len(names))
	for _, name := range names {
		kind, err := derive.ParseSchemeKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// buildCandidates crosses every seed entry with every applicable scheme.
// Sponge schemes only make sense for qubic-shaped entries, so passphrase
// entries skip them instead of producing guaranteed-invalid candidates.
func buildCandidates(entries []seedlist.Entry, kinds []derive.SchemeKind, steps, xors []int) []matcher.Candidate {
	schemes := make([]derive.Scheme, 0, len(kinds))
	for _, kind := range kinds {
		schemes = append(schemes, derive.Scheme{Kind: kind})
		for _, step := range steps {
			for _, xor := range xors {
				if step == 0 && xor == 0 {
					continue
				}
				schemes = append(schemes, derive.Scheme{
					Kind:      kind,
					Transform: derive.PostTransform{Step: byte(step), Xor: byte(xor)},
				})
			}
		}
	}

	var candidates []matcher.Candidate
	for _, entry := range entries {
		for _, scheme := range schemes {
			sponge := scheme.Kind == derive.DoubleSponge || scheme.Kind == derive.DoubleSpongeRaw
			if sponge && entry.Shape != seedlist.ShapeQubic {
				continue
			}
			cand := matcher.Candidate{Scheme: scheme}
			if entry.Shape == seedlist.ShapeQubic {
				cand.Qubic = entry.Qubic
			} else {
				cand.Passphrase = entry.Passphrase
			}
			candidates = append(candidates, cand)
		}
	}
	return candidates
}

func report(results []matcher.Result) {
	counts := map[matcher.Status]int{}
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case matcher.StatusExact:
			fmt.Printf("EXACT  %-14s %s -> %s (%s)\n",
				r.Candidate.Scheme, describeSeed(r.Candidate), r.MatchedAddress, r.MatchedLabel)
		case matcher.StatusNearSum:
			fmt.Printf("NEAR   %-14s %s -> %s mod %d, distance %d (%s)\n",
				r.Candidate.Scheme, describeSeed(r.Candidate), r.MatchedAddress, r.Modulus, r.Distance, r.MatchedLabel)
		case matcher.StatusInvalid:
			fmt.Printf("SKIP   %-14s %s: %v\n", r.Candidate.Scheme, describeSeed(r.Candidate), r.Err)
		}
	}
	fmt.Printf("candidates=%d exact=%d near=%d invalid=%d no_match=%d\n",
		len(results),
		counts[matcher.StatusExact],
		counts[matcher.StatusNearSum],
		counts[matcher.StatusInvalid],
		counts[matcher.StatusNoMatch],
	)
}

// describeSeed identifies a candidate without disclosing its seed bytes.
func describeSeed(c matcher.Candidate) string {
	if c.Qubic != "" {
		return "qubic:" + privacylog.Fingerprint(c.Qubic)
	}
	return "passphrase:" + privacylog.Fingerprint(string(c.Passphrase))
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
