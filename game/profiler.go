package game

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrProfilerBusy is returned while a capture is running or cooling down
var ErrProfilerBusy = errors.New("profiler busy")

// recording is one runtime recorder that runs for the capture window
type recording struct {
	suffix string
	start  func(io.Writer) error
	stop   func()
}

var recordings = []recording{
	{suffix: ".cpu.prof", start: pprof.StartCPUProfile, stop: pprof.StopCPUProfile},
	{suffix: ".trace", start: trace.Start, stop: trace.Stop},
}

// Profiler records a CPU profile, an execution trace and a closing heap
// snapshot when the frame rate drops
type Profiler struct {
	dir      string
	window   time.Duration
	cooldown time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	last    time.Time
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, log zerolog.Logger) *Profiler {
	return &Profiler{
		dir:      dir,
		window:   5 * time.Second,
		cooldown: 10 * time.Second,
		log:      log.With().Str("component", "profiler").Logger(),
	}
}

// CaptureProfile starts a background capture tagged with reason. It returns
// ErrProfilerBusy while one is running or within the cooldown after the last.
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running || (!p.last.IsZero() && time.Since(p.last) < p.cooldown) {
		return ErrProfilerBusy
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}
	p.running = true
	p.last = time.Now()

	base := filepath.Join(p.dir, fmt.Sprintf("fps-drop-%s-%s", p.last.Format("20060102-150405"), reason))
	go p.capture(base)
	return nil
}

func (p *Profiler) capture(base string) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	var wg sync.WaitGroup
	for _, rec := range recordings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.record(base+rec.suffix, rec); err != nil {
				p.log.Error().Err(err).Str("file", base+rec.suffix).Msg("capture failed")
			}
		}()
	}
	wg.Wait()

	if err := writeHeap(base + ".heap.prof"); err != nil {
		p.log.Error().Err(err).Msg("heap snapshot failed")
	}
	p.report(base)
}

func (p *Profiler) record(path string, rec recording) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	if err := rec.start(file); err != nil {
		return fmt.Errorf("start %s: %w", rec.suffix, err)
	}
	time.Sleep(p.window)
	rec.stop()
	return nil
}

func writeHeap(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return pprof.Lookup("heap").WriteTo(file, 0)
}

// report logs the capture files and the heap state at the end of the window
func (p *Profiler) report(base string) {
	cpu := base + ".cpu.prof"
	info, err := os.Stat(cpu)
	if err != nil {
		p.log.Warn().Err(err).Msg("no cpu profile written")
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.log.Info().
		Str("cpu", cpu).
		Int64("cpu_bytes", info.Size()).
		Str("trace", base+".trace").
		Uint64("heap_alloc_kb", m.HeapAlloc/1024).
		Uint64("heap_objects", m.HeapObjects).
		Uint32("num_gc", m.NumGC).
		Msg("profile captured, inspect with go tool pprof -http=:8080")
}

// IsProfiling returns whether a capture is in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
