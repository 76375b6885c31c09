// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build debug

package cmd

import (
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/arl/statsviz"
)

// DebugAddr is the runtime statistics server address
var DebugAddr = "127.0.0.1:6060"

func init() {
	statsviz.RegisterDefault()
}

// StartDebug serves runtime statistics and profiling endpoints.
func StartDebug() {
	go func() {
		log.Printf("debug: %v", http.ListenAndServe(DebugAddr, nil))
	}()
}
