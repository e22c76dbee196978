package lexer

import (
	"io/ioutil"
	"log"
	"os"
)

var logger = log.New(ioutil.Discard, "lexer: ", log.Lshortfile)

// SetTrace enables or disables lexer trace logging to stderr.
func SetTrace(on bool) {
	w := ioutil.Discard
	if on {
		w = os.Stderr
	}
	logger.SetOutput(w)
}
