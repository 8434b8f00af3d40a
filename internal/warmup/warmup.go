// Package warmup exercises detection components before a server takes traffic,
// so buffer pools are populated and code paths are hot.
package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_text_charset/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     1000,
		SampleTextSize: 4096,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger   ports.Logger
	scanners []ports.Scanner
	config   WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterScanner adds a scanner to be warmed up
func (wm *Manager) RegisterScanner(s ports.Scanner) {
	wm.scanners = append(wm.scanners, s)
}

// WarmUp scans a mix of valid and invalid samples with every registered
// scanner. It returns the number of scans performed.
func (wm *Manager) WarmUp(ctx context.Context) int {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.scanners),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	scans := wm.warmUpScanners(ctx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
		"scans", scans,
	)
	return scans
}

func (wm *Manager) warmUpScanners(ctx context.Context) int {
	if len(wm.scanners) == 0 {
		return 0
	}

	wm.logger.Debug("Warming up scanners", "count", len(wm.scanners))

	samples := generateSamples(wm.config.SampleTextSize)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			done := 0
		loop:
			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					break loop
				default:
				}

				sample := samples[j%len(samples)]
				for _, s := range wm.scanners {
					_ = s.Scan(sample)
					done++
				}
			}

			mu.Lock()
			total += done
			mu.Unlock()
		}()
	}

	wg.Wait()
	return total
}

// Helper functions for generating test data

// generateSamples returns ASCII, multi-byte UTF-8 and broken samples of roughly size bytes.
func generateSamples(size int) [][]byte {
	ascii := generateSampleText(size, []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	})
	multiByte := generateSampleText(size, []string{
		"naïve", "café", "Grüße", "€uro", "日本語", "😀",
	})
	broken := []byte(multiByte)
	for i := 7; i < len(broken); i += 97 {
		broken[i] = 0xFF
	}

	return [][]byte{[]byte(ascii), []byte(multiByte), broken}
}

// generateSampleText creates sample text of approximately the specified size
// from words. It never cuts a word in half.
func generateSampleText(size int, words []string) string {
	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[i%len(words)])
	}
	return sb.String()
}
