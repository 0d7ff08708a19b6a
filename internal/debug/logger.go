package debug

import (
	"fmt"
	"io"
	"time"
)

var writer io.Writer = io.Discard

// SetOutput sets the debug output destination
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	writer = w
}

// Log writes a timestamped debug message
func Log(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	fmt.Fprintf(writer, time.Now().Format("15:04:05.000")+" "+format+"\n", args...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return writer != io.Discard
}

// Timer measures a named stage
type Timer struct {
	name  string
	start time.Time
}

// Start begins timing a stage and logs its start
func Start(name string) *Timer {
	Log("%s: started", name)
	return &Timer{name: name, start: time.Now()}
}

// Stop logs the stage duration and returns it
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Log("%s: finished in %s", t.name, elapsed.Round(time.Millisecond))
	return elapsed
}
