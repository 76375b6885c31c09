// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !debug

package cmd

// StartDebug is a no-op without the `debug` build tag.
func StartDebug() {}
