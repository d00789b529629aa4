// Command pactumctl drives the Pactum V0 transition engine: it runs a
// single step over a pact/state/envelope triple, derives deterministic
// fixture keys, verifies a receipt against its inputs, and (serve) exposes
// the process's Prometheus metrics and a health check until interrupted.
// The serve subcommand runs no steps, so its counters count only what that
// process itself recorded.
//
// Grounded on the reference validator's main.go shape: flag parsing,
// log.Fatalf on unrecoverable setup errors, a context cancelled on
// SIGINT/SIGTERM, and a graceful HTTP shutdown for the metrics server.
// A run gets a uuid-tagged run-id for log correlation, also written as
// run_id into the step result; the transition engine itself never sees it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pactum-protocol/pactum-core/pkg/fixture"
	"github.com/pactum-protocol/pactum-core/pkg/keys"
	"github.com/pactum-protocol/pactum-core/pkg/metrics"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/pactconfig"
	"github.com/pactum-protocol/pactum-core/pkg/receipt"
	"github.com/pactum-protocol/pactum-core/pkg/step"
	"github.com/pactum-protocol/pactum-core/pkg/trace"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	runID := uuid.NewString()

	var err error
	switch os.Args[1] {
	case "step":
		err = runStep(runID, os.Args[2:])
	case "genkey":
		err = runGenkey(os.Args[2:])
	case "verify-receipt":
		err = runVerifyReceipt(os.Args[2:])
	case "serve":
		err = runServe(runID, os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		if token, ok := pacterr.TokenOf(err); ok {
			log.Fatalf("[%s] %s: %v", runID, token, err)
		}
		log.Fatalf("[%s] %v", runID, err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: pactumctl <step|genkey|verify-receipt|serve> [flags]")
}

// stepInput is the on-disk request shape for the step subcommand: a pact, a
// prev_state, and an envelope, each exactly as the wire format defines them.
type stepInput struct {
	Pact      json.RawMessage `json:"pact"`
	PrevState json.RawMessage `json:"prev_state"`
	Envelope  json.RawMessage `json:"envelope"`
}

func runStep(runID string, args []string) error {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	inPath := fs.String("in", "", "path to a JSON file with {pact, prev_state, envelope}")
	out := fs.String("out", "", "path to write the result JSON (default stdout)")
	metricsAddr := fs.String("metrics-addr", "", "if set, overrides PACTUM_METRICS_ADDR in the loaded config (step itself starts no metrics server)")
	fs.Parse(args)

	if *inPath == "" {
		return fmt.Errorf("step: -in is required")
	}

	cfg, err := pactconfig.Load(os.Getenv("PACTUM_CONFIG"))
	if err != nil {
		return err
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("step: read %s: %w", *inPath, err)
	}
	var in stepInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("step: parse input: %w", err)
	}

	p, prevState, envelope, err := decodeStepInput(in)
	if err != nil {
		return err
	}

	start := time.Now()
	result, stepErr := step.Step(p, prevState, envelope)
	metrics.StepDuration.Observe(time.Since(start).Seconds())

	if stepErr != nil {
		outcome := "error"
		if token, ok := pacterr.TokenOf(stepErr); ok {
			outcome = string(token)
		}
		metrics.StepsTotal.WithLabelValues(outcome).Inc()
		return stepErr
	}
	metrics.StepsTotal.WithLabelValues("ok").Inc()
	metrics.ClaimsPaidTotal.Add(float64(len(result.Outputs.Effects)))
	for _, s := range result.Trace.Steps {
		switch s["kind"] {
		case trace.KindCommitClockQuorum:
			metrics.QuorumRoundsTotal.WithLabelValues("clock").Inc()
		case trace.KindCommitMetricQuorum:
			metrics.QuorumRoundsTotal.WithLabelValues("metric").Inc()
		}
	}

	body, err := json.MarshalIndent(map[string]interface{}{
		"run_id":    runID,
		"new_state": result.NewState,
		"outputs":   result.Outputs,
		"trace":     result.Trace,
		"receipt":   result.Receipt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("step: encode result: %w", err)
	}

	if *out == "" {
		fmt.Println(string(body))
		return nil
	}
	return os.WriteFile(*out, append(body, '\n'), 0o644)
}

func runGenkey(args []string) error {
	fs := flag.NewFlagSet("genkey", flag.ExitOnError)
	label := fs.String("label", "", "fixture key label, e.g. party:a or oracle:clock1")
	fs.Parse(args)

	if *label == "" {
		return fmt.Errorf("genkey: -label is required")
	}

	pub, priv := fixture.DeriveKey(*label)
	pubStr, err := keys.EncodePublicKey(pub)
	if err != nil {
		return err
	}

	out := map[string]string{
		"label":       *label,
		"public_key":  pubStr,
		"private_key": fmt.Sprintf("%x", []byte(priv)),
	}
	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

// verifyReceiptInput is the on-disk request shape for verify-receipt: the
// same transition inputs plus the receipt it should have produced.
type verifyReceiptInput struct {
	Pact      json.RawMessage `json:"pact"`
	PrevState json.RawMessage `json:"prev_state"`
	NewState  json.RawMessage `json:"new_state"`
	Envelope  json.RawMessage `json:"envelope"`
	Outputs   json.RawMessage `json:"outputs"`
	Trace     json.RawMessage `json:"trace"`
	Receipt   receipt.Receipt `json:"receipt"`
}

func runVerifyReceipt(args []string) error {
	fs := flag.NewFlagSet("verify-receipt", flag.ExitOnError)
	inPath := fs.String("in", "", "path to a JSON file with the transition inputs and a receipt")
	fs.Parse(args)

	if *inPath == "" {
		return fmt.Errorf("verify-receipt: -in is required")
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("verify-receipt: read %s: %w", *inPath, err)
	}
	var in verifyReceiptInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("verify-receipt: parse input: %w", err)
	}

	p, prevState, envelope, err := decodeStepInput(stepInput{Pact: in.Pact, PrevState: in.PrevState, Envelope: in.Envelope})
	if err != nil {
		return err
	}
	var newState interface{}
	if err := json.Unmarshal(in.NewState, &newState); err != nil {
		return fmt.Errorf("verify-receipt: parse new_state: %w", err)
	}
	var outputs interface{}
	if err := json.Unmarshal(in.Outputs, &outputs); err != nil {
		return fmt.Errorf("verify-receipt: parse outputs: %w", err)
	}
	var tr interface{}
	if err := json.Unmarshal(in.Trace, &tr); err != nil {
		return fmt.Errorf("verify-receipt: parse trace: %w", err)
	}

	if err := receipt.Verify(in.Receipt, p, prevState, newState, envelope, outputs, tr); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func runServe(runID string, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("PACTUM_CONFIG"), "path to an optional YAML config file")
	fs.Parse(args)

	cfg, err := pactconfig.Load(*configPath)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr == "" {
		return fmt.Errorf("serve: no metrics address configured (set PACTUM_METRICS_ADDR or metrics_addr)")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		log.Printf("[%s] metrics listening on %s", runID, cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[%s] metrics server: %v", runID, err)
		}
	}()

	<-ctx.Done()
	log.Printf("[%s] shutting down", runID)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
