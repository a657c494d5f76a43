package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olegtaranenko/nanobuffer/config"
	"github.com/olegtaranenko/nanobuffer/hdrreport"
	"github.com/olegtaranenko/nanobuffer/ioutils"
	"github.com/olegtaranenko/nanobuffer/ring"
	"github.com/olegtaranenko/nanobuffer/ringmetrics"
	"github.com/olegtaranenko/nanobuffer/scripting"
	"github.com/olegtaranenko/nanobuffer/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sizeFlag is a flag.Value accepting zero or greater.
type sizeFlag struct {
	name string
	n    int
}

func (f *sizeFlag) String() string {
	if f == nil {
		return ""
	}
	return strconv.Itoa(f.n)
}

func (f *sizeFlag) Set(s string) error {
	n, err := ring.ParseSize(f.name, s)
	if err != nil {
		return err
	}
	f.n = n
	return nil
}

// offsetFlag is a flag.Value accepting any whole number.
type offsetFlag struct {
	name string
	n    int
}

func (f *offsetFlag) String() string {
	if f == nil {
		return ""
	}
	return strconv.Itoa(f.n)
}

func (f *offsetFlag) Set(s string) error {
	n, err := ring.ParseOffset(f.name, s)
	if err != nil {
		return err
	}
	f.n = n
	return nil
}

type options struct {
	capacity         sizeFlag
	offset           offsetFlag
	window           sizeFlag
	reverse          bool
	interval         time.Duration
	script           string
	concurrency      int
	metricAddr       string
	out              string
	reportLengthsCSV string
	noLengthSummary  bool
}

func defaultOptions() *options {
	return &options{
		capacity:    sizeFlag{name: "capacity", n: ring.DefaultCapacity},
		offset:      offsetFlag{name: "offset"},
		window:      sizeFlag{name: "window", n: 5},
		interval:    10 * time.Second,
		concurrency: 1,
		out:         "-",
	}
}

func (o *options) register(fs *flag.FlagSet) {
	fs.Var(&o.capacity, "capacity", "number of most recent lines to keep")
	fs.Var(&o.offset, "offset", "skip this many lines from the start of the dump (negative counts back from capacity)")
	fs.Var(&o.window, "window", "number of past intervals the change indicator compares against")
	fs.BoolVar(&o.reverse, "reverse", o.reverse, "dump newest lines first")
	fs.DurationVar(&o.interval, "interval", o.interval, "reporting interval, 0 disables")
	fs.StringVar(&o.script, "script", o.script, "lua script defining nanobuffer.transform(line, seq)")
	fs.IntVar(&o.concurrency, "concurrency", o.concurrency, "number of lua VMs to keep")
	fs.StringVar(&o.metricAddr, "metric-addr", o.metricAddr, "address to serve metrics on")
	fs.StringVar(&o.out, "out", o.out, "file to write the retained lines to, - for stdout")
	fs.StringVar(&o.reportLengthsCSV, "reportLengthsCSV", o.reportLengthsCSV,
		"filename to output hdrhistogram line lengths in CSV")
	fs.BoolVar(&o.noLengthSummary, "noLengthSummary", o.noLengthSummary, "suppress the final line length summary")
}

// applyConfig copies every value the file sets onto o, unless the flag of
// the same name was given explicitly.
func (o *options) applyConfig(cfg config.Config, explicit map[string]bool) {
	if cfg.Capacity != nil && !explicit["capacity"] {
		o.capacity.n = *cfg.Capacity
	}
	if cfg.Offset != nil && !explicit["offset"] {
		o.offset.n = *cfg.Offset
	}
	if cfg.Window != nil && !explicit["window"] {
		o.window.n = *cfg.Window
	}
	if cfg.Reverse != nil && !explicit["reverse"] {
		o.reverse = *cfg.Reverse
	}
	if cfg.Interval.Set && !explicit["interval"] {
		o.interval = cfg.Interval.Duration
	}
	if cfg.Script != "" && !explicit["script"] {
		o.script = cfg.Script
	}
	if cfg.Concurrency != nil && !explicit["concurrency"] {
		o.concurrency = *cfg.Concurrency
	}
	if cfg.MetricAddr != "" && !explicit["metric-addr"] {
		o.metricAddr = cfg.MetricAddr
	}
	if cfg.Out != "" && !explicit["out"] {
		o.out = cfg.Out
	}
	if cfg.ReportLengthsCSV != "" && !explicit["reportLengthsCSV"] {
		o.reportLengthsCSV = cfg.ReportLengthsCSV
	}
	if cfg.NoLengthSummary != nil && !explicit["noLengthSummary"] {
		o.noLengthSummary = *cfg.NoLengthSummary
	}
}

// tailer owns the ring. Only the goroutine running the event loop touches
// it.
type tailer struct {
	lines     *ring.Ring[string]
	transform func(*scripting.LRecord, uint64) error
	metrics   *ringmetrics.Metrics

	// per interval
	hist      *hdrhistogram.Histogram
	pushes    uint64
	evictions uint64
	skipped   uint64

	globalHist *hdrhistogram.Histogram
	seq        uint64
}

func newTailer(capacity int, metrics *ringmetrics.Metrics) (*tailer, error) {
	lines, err := ring.New[string](capacity)
	if err != nil {
		return nil, err
	}
	t := &tailer{
		lines:      lines,
		metrics:    metrics,
		hist:       hdrreport.NewHistogram(),
		globalHist: hdrreport.NewHistogram(),
	}
	metrics.Observe(lines)
	return t, nil
}

func (t *tailer) add(line string) error {
	t.seq++
	rec := scripting.LRecord{Line: line}
	if t.transform != nil {
		if err := t.transform(&rec, t.seq); err != nil {
			return fmt.Errorf("transforming line %d: %w", t.seq, err)
		}
	}
	if rec.Skip {
		t.skipped++
		t.metrics.Skipped.Inc()
		return nil
	}

	if t.lines.Cap() > 0 && t.lines.Full() {
		t.evictions++
		t.metrics.Evictions.Inc()
	}
	if rec.Remove {
		t.lines.PushNone()
		t.metrics.Removals.Inc()
	} else {
		t.lines.Push(rec.Line)
		hdrreport.Record(t.hist, len(rec.Line))
		hdrreport.Record(t.globalHist, len(rec.Line))
	}
	t.pushes++
	t.metrics.Pushes.Inc()
	t.metrics.Observe(t.lines)
	return nil
}

// dump writes the present lines, skipping absent slots.
func (t *tailer) dump(w io.Writer, reverse bool, offset int) error {
	for line, ok := range t.lines.Values(reverse, offset) {
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// report prints one status line and starts a new interval. The change
// indicator compares this interval's p99 length against the history before
// the p99 joins it.
func (t *tailer) report(w io.Writer, now time.Time, interval time.Duration, history *ring.Ring[int]) {
	lastP99 := int(t.hist.ValueAtQuantile(99))
	changeIndicator := window.CalculateChangeIndicator(history, lastP99)
	history.Push(lastP99)

	fmt.Fprintf(w, "%s %4d/%-4d %s %6d %6d %6d [%4d %4d %4d ] %s\n",
		now.Format(time.RFC3339),
		t.lines.Len(),
		t.lines.Cap(),
		interval,
		t.pushes,
		t.evictions,
		t.skipped,
		t.hist.ValueAtQuantile(50),
		t.hist.ValueAtQuantile(95),
		t.hist.ValueAtQuantile(99),
		changeIndicator)

	t.pushes = 0
	t.evictions = 0
	t.skipped = 0
	t.hist.Reset()
}

func exUsage(msg string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(msg, args...))
	fmt.Fprintln(os.Stderr, "Try --help for help.")
	os.Exit(64)
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// scanLines sends every line of r on the returned channel and closes it at
// EOF. A read error is sent on errs first.
func scanLines(r io.Reader, errs chan<- error) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), int(hdrreport.MaxLength))
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()
	return lines
}

func main() {
	opts := defaultOptions()
	opts.register(flag.CommandLine)
	configPath := flag.String("config", "", "TOML file with default flag values")
	help := flag.Bool("help", false, "show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file]\n", path.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(64)
	}

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			exUsage("invalid config '%s': %s", *configPath, err.Error())
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		opts.applyConfig(cfg, explicit)
	}

	if flag.NArg() > 1 {
		exUsage("Expecting at most one argument: the file to read, or - for stdin")
	}

	if opts.concurrency < 1 {
		exUsage("concurrency must be at least 1")
	}

	if opts.interval < 0 {
		exUsage("interval must not be negative")
	}

	metrics := ringmetrics.New("nanobuffer")
	t, err := newTailer(opts.capacity.n, metrics)
	if err != nil {
		exUsage("%s", err.Error())
	}

	history, err := ring.New[int](opts.window.n)
	if err != nil {
		exUsage("%s", err.Error())
	}

	if opts.script != "" {
		pool, err := scripting.NewLStatePool(opts.script, opts.concurrency, scripting.DefaultModuleLoaders)
		if err != nil {
			exUsage("invalid script: %s", err.Error())
		}
		defer pool.Shutdown()
		t.transform = scripting.NewTransformer(pool)
	}

	in, err := openInput(flag.Arg(0))
	if err != nil {
		exUsage("%s", err.Error())
	}
	defer in.Close()

	out, err := ioutils.OpenOutput(opts.out)
	if err != nil {
		exUsage("%s", err.Error())
	}

	if opts.metricAddr != "" {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			log.Fatalf("Unable to register metrics: %v", err)
		}
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(opts.metricAddr, nil); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	interrupted := make(chan os.Signal, 2)
	signal.Notify(interrupted, syscall.SIGINT, syscall.SIGTERM)

	var tick <-chan time.Time
	if opts.interval > 0 {
		ticker := time.NewTicker(opts.interval)
		defer ticker.Stop()
		tick = ticker.C
		// The time portion of the header can change due to timezone.
		timePadding := strings.Repeat(" ", len(time.Now().Format(time.RFC3339))-1)
		fmt.Fprintf(os.Stderr, "# keeping the last %d lines\n", opts.capacity.n)
		fmt.Fprintf(os.Stderr, "#%s size/cap  interval pushes  evict   skip [ p50  p95  p99 ] change\n", timePadding)
	}

	readErrs := make(chan error, 1)
	lines := scanLines(in, readErrs)

	exitCode := 0
loop:
	for {
		select {
		case <-interrupted:
			break loop
		case err := <-readErrs:
			log.Printf("reading input: %v", err)
			exitCode = 1
			break loop
		case now := <-tick:
			t.report(os.Stderr, now, opts.interval, history)
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErrs:
					log.Printf("reading input: %v", err)
					exitCode = 1
				default:
				}
				break loop
			}
			if err := t.add(line); err != nil {
				log.Printf("%v", err)
				exitCode = 1
				break loop
			}
		}
	}

	if err := t.dump(out, opts.reverse, opts.offset.n); err != nil {
		log.Printf("writing output: %v", err)
		exitCode = 1
	}
	if err := out.Close(); err != nil {
		log.Printf("closing output: %v", err)
		exitCode = 1
	}

	if !opts.noLengthSummary {
		hdrreport.PrintLengthSummary(os.Stderr, t.globalHist)
	}
	if opts.reportLengthsCSV != "" {
		if err := hdrreport.WriteReportCSV(opts.reportLengthsCSV, t.globalHist); err != nil {
			log.Printf("Unable to write line length CSV file: %v", err)
			exitCode = 1
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
