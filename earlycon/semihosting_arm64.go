// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package earlycon

// defined in semihosting_arm64.s
func semihostingCall(op uint64, arg *byte) uint64
