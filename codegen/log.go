package codegen

import (
	"io/ioutil"
	"log"
	"os"
)

// PrintDebugInfo turns codegen trace output on or off. It can be read at
// any time, but only SetTrace actually moves the logger between stderr and
// discard; setting the variable directly has no effect once init has run.
var PrintDebugInfo = false

var logger = log.New(ioutil.Discard, "codegen: ", log.Lshortfile)

func init() {
	if PrintDebugInfo {
		SetTrace(true)
	}
}

// SetTrace enables or disables codegen trace logging to stderr.
func SetTrace(on bool) {
	PrintDebugInfo = on
	w := ioutil.Discard
	if on {
		w = os.Stderr
	}
	logger.SetOutput(w)
}
