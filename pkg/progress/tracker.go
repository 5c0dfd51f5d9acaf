package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Global variables for progress tracking
var (
	bytesScanned atomic.Uint64
	totalSize    uint64
	done         chan struct{}
	running      bool
	mu           sync.Mutex
	isTestMode   bool // suppress periodic output during tests
)

// Init initializes progress tracking for one conversion. size is the size of
// the source archive in bytes, or 0 when unknown.
func Init(size uint64) {
	mu.Lock()
	defer mu.Unlock()

	if running {
		return
	}

	bytesScanned.Store(0)
	totalSize = size
	if totalSize == 0 {
		totalSize = 1 // Avoid division by zero
	}

	done = make(chan struct{})
	running = true
	go logger()
}

// SetTestMode enables or disables test mode
// In test mode, progress output is suppressed to avoid cluttering test output
func SetTestMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	isTestMode = enabled
}

// Stop stops the progress tracking
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if running {
		close(done)
		running = false
	}
}

// AddBytes adds scanned source bytes to the counter
func AddBytes(n uint64) {
	if n > 0 {
		bytesScanned.Add(n)
	}
}

// formatSize returns a human-readable size string
func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// logger reports conversion progress periodically until Stop is called.
func logger() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	startTime := time.Now()
	var prevPercentage float64

	for {
		select {
		case <-ticker.C:
			if isTestMode {
				continue
			}
			current := bytesScanned.Load()
			percentage := float64(current) / float64(totalSize) * 100
			if percentage > 100 {
				percentage = 100
			}
			// Only report on meaningful movement
			if percentage-prevPercentage < 5 {
				continue
			}
			prevPercentage = percentage

			if totalSize > 1 {
				fmt.Printf("Scanned %s of %s (%.0f%%)\n",
					formatSize(current), formatSize(totalSize), percentage)
			} else {
				fmt.Printf("Scanned %s\n", formatSize(current))
			}
			os.Stdout.Sync()
		case <-done:
			if !isTestMode {
				elapsed := time.Since(startTime).Seconds()
				if elapsed < 0.001 {
					elapsed = 0.001
				}
				fmt.Printf("Scanned %s in %.1f seconds\n",
					formatSize(bytesScanned.Load()), elapsed)
			}
			return
		}
	}
}

// Reader is a reader that tracks bytes read for progress reporting
type Reader struct {
	R io.Reader
}

// Read implements io.Reader and tracks bytes read
func (pr *Reader) Read(p []byte) (n int, err error) {
	n, err = pr.R.Read(p)
	if n > 0 {
		AddBytes(uint64(n))
	}
	return
}
