package main

import (
	_ "expvar"         // register the /debug/vars handler
	_ "net/http/pprof" // register the /debug/pprof handlers
)

func main() {
	startWithDig()
}
