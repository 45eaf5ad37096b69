package machine

import (
	"io"
	"os"
	"sync/atomic"
)

type writerBox struct{ io.Writer }

var sysWriter atomic.Value

func init() {
	sysWriter.Store(writerBox{os.Stderr})
}

// SetSystemWriter redirects bad trap reports to w. They are written without
// going through the kernel log, since the system is about to halt.
func SetSystemWriter(w io.Writer) {
	sysWriter.Store(writerBox{w})
}

type systemWriter int

// SystemWriter writes to the writer set with SetSystemWriter, os.Stderr by
// default.
const SystemWriter systemWriter = 0

func (v systemWriter) Write(p []byte) (int, error) {
	return sysWriter.Load().(writerBox).Write(p)
}
