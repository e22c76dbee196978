package semant

import (
	"io/ioutil"
	"log"
	"os"
)

var logger = log.New(ioutil.Discard, "semant: ", log.Lshortfile)

// SetTrace enables or disables semantic-analysis trace logging to stderr.
func SetTrace(on bool) {
	w := ioutil.Discard
	if on {
		w = os.Stderr
	}
	logger.SetOutput(w)
}
