package x86dec

import (
	"io"
	"log"
)

// trace is the package-level decode-step logger, silent by default. A
// package-level *log.Logger wired straight to a discardable stream avoids
// threading a logger through every call.
var trace = log.New(io.Discard, "x86dec ", log.Lshortfile)

// SetTraceOutput redirects the package's decode trace to w. Passing nil
// silences it again. Trace lines are emitted at prefix collection,
// primary and secondary opcode dispatch, and the ModR/M byte read; SIB
// bytes and operand appends are not traced — useful for diagnosing why a
// particular byte stream decoded the way it did, never for control flow.
func SetTraceOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	trace.SetOutput(w)
}
