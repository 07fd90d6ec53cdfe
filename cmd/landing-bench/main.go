// Command landing-bench measures live session round trips against an
// in-process server.
//
// Every client mounts a session and toggles the navigation menu at the
// requested rate, timing each click until the matching class patch
// arrives.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/landing/internal/config"
	"github.com/vango-dev/landing/internal/logging"
	"github.com/vango-dev/landing/internal/server"
	"github.com/vango-dev/landing/internal/site"
	"github.com/vango-dev/landing/pkg/protocol"
	"github.com/vango-dev/landing/pkg/ui"
)

type profile struct {
	Name     string
	Clients  int
	Duration time.Duration
	RPS      float64
}

var profiles = map[string]profile{
	"fast":     {Name: "fast", Clients: 50, Duration: 10 * time.Second, RPS: 2},
	"standard": {Name: "standard", Clients: 200, Duration: 30 * time.Second, RPS: 5},
	"stress":   {Name: "stress", Clients: 500, Duration: 60 * time.Second, RPS: 10},
}

type benchConfig struct {
	Profile      string
	Clients      int
	Duration     time.Duration
	RPS          float64
	JSONOutput   string
	EventTimeout time.Duration
}

type benchCounters struct {
	eventsSent     atomic.Uint64
	eventsComplete atomic.Uint64
	patchFrames    atomic.Uint64
	patchesTotal   atomic.Uint64
}

type benchErrors struct {
	handshakeFailures  atomic.Uint64
	eventWriteFailures atomic.Uint64
	serverErrorFrames  atomic.Uint64
	patchMissing       atomic.Uint64
	totalErrors        atomic.Uint64
}

// targets are the live ids a client clicks and watches.
type targets struct {
	menu string
	nav  string
}

func main() {
	log.SetFlags(0)

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	appCfg := config.New()
	appCfg.Server.Metrics = false
	srv := server.New(appCfg, site.DefaultContent(),
		server.WithLogger(logging.Discard()),
		server.WithRegistry(prometheus.NewRegistry()),
	)

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	httpServer := &http.Server{Handler: srv.Handler()}
	go func() {
		_ = httpServer.Serve(ln)
	}()
	defer func() {
		_ = srv.Manager().Shutdown(context.Background())
		_ = httpServer.Shutdown(context.Background())
	}()

	doc := site.NewDocument(site.DefaultContent())
	menu, nav := doc.Query("[data-menu-button]"), doc.Query("[data-nav]")
	if menu == nil || nav == nil {
		log.Fatal("page has no navigation menu")
	}
	tg := targets{menu: menu.LID(), nav: nav.LID()}

	wsURL := "ws://" + ln.Addr().String() + server.LivePath

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	samplesCh := make(chan time.Duration, 1024)
	var samples []time.Duration
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for rtt := range samplesCh {
			samples = append(samples, rtt)
		}
	}()

	var counters benchCounters
	var errCounts benchErrors

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.Clients)
	for i := 0; i < cfg.Clients; i++ {
		go func() {
			defer wg.Done()
			if err := runClient(ctx, wsURL, tg, cfg, &counters, &errCounts, samplesCh); err != nil {
				errCounts.totalErrors.Add(1)
			}
		}()
	}
	wg.Wait()
	close(samplesCh)
	<-collectorDone
	elapsed := time.Since(start)

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	report := buildReport(cfg, elapsed, samples, &counters, &errCounts)

	writeSummary(os.Stderr, report)
	if err := writeJSON(cfg.JSONOutput, report); err != nil {
		log.Fatalf("write json: %v", err)
	}
}

func parseConfig(args []string) (benchConfig, error) {
	fs := flag.NewFlagSet("landing-bench", flag.ContinueOnError)
	profileFlag := fs.String("profile", "standard", "profile: fast|standard|stress")
	clientsFlag := fs.Int("clients", -1, "number of concurrent websocket clients")
	durationFlag := fs.String("duration", "", "benchmark duration, e.g. 30s")
	rpsFlag := fs.Float64("rps", -1, "target clicks/sec per client")
	jsonFlag := fs.String("json", "-", "JSON output path ('-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return benchConfig{}, err
	}

	name := strings.ToLower(strings.TrimSpace(*profileFlag))
	if name == "" {
		name = "standard"
	}
	base, ok := profiles[name]
	if !ok {
		return benchConfig{}, fmt.Errorf("unknown profile %q", name)
	}

	cfg := benchConfig{
		Profile:    base.Name,
		Clients:    base.Clients,
		Duration:   base.Duration,
		RPS:        base.RPS,
		JSONOutput: strings.TrimSpace(*jsonFlag),
	}
	if *clientsFlag != -1 {
		cfg.Clients = *clientsFlag
	}
	if *durationFlag != "" {
		d, err := time.ParseDuration(*durationFlag)
		if err != nil {
			return benchConfig{}, fmt.Errorf("invalid -duration: %w", err)
		}
		cfg.Duration = d
	}
	if *rpsFlag != -1 {
		cfg.RPS = *rpsFlag
	}
	if cfg.JSONOutput == "" {
		cfg.JSONOutput = "-"
	}

	if cfg.Clients <= 0 {
		return benchConfig{}, errors.New("-clients must be > 0")
	}
	if cfg.Duration <= 0 {
		return benchConfig{}, errors.New("-duration must be > 0")
	}
	if cfg.RPS <= 0 {
		return benchConfig{}, errors.New("-rps must be > 0")
	}

	cfg.EventTimeout = eventTimeout(cfg.RPS)
	return cfg, nil
}

func eventTimeout(rps float64) time.Duration {
	if rps <= 0 {
		return 0
	}
	period := time.Duration(float64(time.Second) / rps)
	timeout := period * 10
	if timeout < 2*time.Second {
		timeout = 2 * time.Second
	}
	return timeout
}

const helloFrame = `{"t":"hello","hello":{"viewport":{"w":1280,"h":720},"scrollY":0,"features":{"io":true,"inert":true}}}`

func runClient(
	ctx context.Context,
	wsURL string,
	tg targets,
	cfg benchConfig,
	counters *benchCounters,
	errCounts *benchErrors,
	samples chan<- time.Duration,
) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		errCounts.handshakeFailures.Add(1)
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(helloFrame)); err != nil {
		errCounts.handshakeFailures.Add(1)
		return fmt.Errorf("hello write: %w", err)
	}
	conn.SetReadDeadline(time.Now().Add(cfg.EventTimeout))
	if _, err := waitFor(conn, counters, func(out *protocol.Outbound) bool {
		return out.Type == protocol.TypeWelcome
	}); err != nil {
		errCounts.handshakeFailures.Add(1)
		return fmt.Errorf("welcome: %w", err)
	}

	period := time.Duration(float64(time.Second) / cfg.RPS)
	click := fmt.Sprintf(`{"t":"event","event":{"type":"click","target":%q}}`, tg.menu)
	open := false

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(click)); err != nil {
			errCounts.eventWriteFailures.Add(1)
			return fmt.Errorf("event write: %w", err)
		}
		counters.eventsSent.Add(1)

		want := "addClass"
		if open {
			want = "removeClass"
		}
		conn.SetReadDeadline(time.Now().Add(cfg.EventTimeout))
		found, err := waitFor(conn, counters, func(out *protocol.Outbound) bool {
			for _, p := range out.Patches {
				if p.Op == want && p.Target == tg.nav && p.Key == ui.ClassOpen {
					return true
				}
			}
			return false
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if isTimeout(err) {
				errCounts.patchMissing.Add(1)
			}
			return fmt.Errorf("wait for patch: %w", err)
		}
		if !found {
			errCounts.serverErrorFrames.Add(1)
			return errors.New("server error frame")
		}
		open = !open

		rtt := time.Since(start)
		counters.eventsComplete.Add(1)
		samples <- rtt

		if sleep := period - rtt; sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// waitFor reads frames until match accepts one. It returns false when an
// error frame arrives first.
func waitFor(conn *websocket.Conn, counters *benchCounters, match func(*protocol.Outbound) bool) (bool, error) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return false, err
		}
		var out protocol.Outbound
		if err := json.Unmarshal(msg, &out); err != nil {
			return false, err
		}
		switch out.Type {
		case protocol.TypePatches:
			counters.patchFrames.Add(1)
			counters.patchesTotal.Add(uint64(len(out.Patches)))
		case protocol.TypeError:
			return false, nil
		}
		if match(&out) {
			return true, nil
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type benchReport struct {
	Profile    string         `json:"profile"`
	Go         string         `json:"go"`
	Clients    int            `json:"clients"`
	RPS        float64        `json:"rps_per_client"`
	ElapsedS   float64        `json:"elapsed_s"`
	LatencyMS  latencyInfo    `json:"latency_ms"`
	Throughput throughputInfo `json:"throughput"`
	Errors     errorInfo      `json:"errors"`
}

type latencyInfo struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	EventsSent     uint64  `json:"events_sent"`
	EventsComplete uint64  `json:"events_complete"`
	EventsPerSec   float64 `json:"events_per_sec"`
	PatchFrames    uint64  `json:"patch_frames"`
	Patches        uint64  `json:"patches"`
}

type errorInfo struct {
	Handshake   uint64 `json:"handshake"`
	EventWrite  uint64 `json:"event_write"`
	ServerError uint64 `json:"server_error"`
	Missing     uint64 `json:"patch_missing"`
	Total       uint64 `json:"total"`
}

func buildReport(cfg benchConfig, elapsed time.Duration, latencies []time.Duration, counters *benchCounters, errCounts *benchErrors) benchReport {
	complete := counters.eventsComplete.Load()
	var perSec float64
	if elapsed > 0 {
		perSec = float64(complete) / elapsed.Seconds()
	}
	var maxRTT time.Duration
	if len(latencies) > 0 {
		maxRTT = latencies[len(latencies)-1]
	}
	return benchReport{
		Profile:  cfg.Profile,
		Go:       runtime.Version(),
		Clients:  cfg.Clients,
		RPS:      cfg.RPS,
		ElapsedS: elapsed.Seconds(),
		LatencyMS: latencyInfo{
			P50: ms(percentile(latencies, 0.50)),
			P95: ms(percentile(latencies, 0.95)),
			P99: ms(percentile(latencies, 0.99)),
			Max: ms(maxRTT),
		},
		Throughput: throughputInfo{
			EventsSent:     counters.eventsSent.Load(),
			EventsComplete: complete,
			EventsPerSec:   perSec,
			PatchFrames:    counters.patchFrames.Load(),
			Patches:        counters.patchesTotal.Load(),
		},
		Errors: errorInfo{
			Handshake:   errCounts.handshakeFailures.Load(),
			EventWrite:  errCounts.eventWriteFailures.Load(),
			ServerError: errCounts.serverErrorFrames.Load(),
			Missing:     errCounts.patchMissing.Load(),
			Total:       errCounts.totalErrors.Load(),
		},
	}
}

func writeSummary(w io.Writer, r benchReport) {
	fmt.Fprintf(w, "profile=%s clients=%d rps=%.1f elapsed=%.1fs\n", r.Profile, r.Clients, r.RPS, r.ElapsedS)
	fmt.Fprintf(w, "latency p50=%.2fms p95=%.2fms p99=%.2fms max=%.2fms\n",
		r.LatencyMS.P50, r.LatencyMS.P95, r.LatencyMS.P99, r.LatencyMS.Max)
	fmt.Fprintf(w, "events sent=%d complete=%d (%.1f/s) patches=%d in %d frames\n",
		r.Throughput.EventsSent, r.Throughput.EventsComplete, r.Throughput.EventsPerSec,
		r.Throughput.Patches, r.Throughput.PatchFrames)
	if r.Errors.Total > 0 {
		fmt.Fprintf(w, "errors total=%d handshake=%d write=%d server=%d missing=%d\n",
			r.Errors.Total, r.Errors.Handshake, r.Errors.EventWrite, r.Errors.ServerError, r.Errors.Missing)
	}
}

func writeJSON(path string, report benchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
