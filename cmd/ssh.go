// Copyright (c) The go-earlycon authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"

	"github.com/usbarmory/go-earlycon/shell"
)

func parseAuthorizedKeys(buf []byte) (keys []ssh.PublicKey, err error) {
	for len(bytes.TrimSpace(buf)) > 0 {
		var key gossh.PublicKey

		if key, _, _, buf, err = gossh.ParseAuthorizedKey(buf); err != nil {
			return nil, fmt.Errorf("could not parse authorized key, %v", err)
		}

		keys = append(keys, key)
	}

	return
}

func handler(s ssh.Session) {
	log.Printf("ssh: session from %s@%s", s.User(), s.RemoteAddr())

	iface := &shell.Interface{
		Banner:     Banner,
		ReadWriter: s,
		VT100:      true,
	}

	iface.Start()
}

// ErrNoAuthorizedKeys is returned when serving the shell without client
// authentication.
var ErrNoAuthorizedKeys = errors.New("no authorized keys, refusing unauthenticated access")

func newServer(addr string, hostKey string, authorizedKeys string) (srv *ssh.Server, err error) {
	if len(authorizedKeys) == 0 {
		return nil, ErrNoAuthorizedKeys
	}

	buf, err := os.ReadFile(authorizedKeys)

	if err != nil {
		return
	}

	keys, err := parseAuthorizedKeys(buf)

	if err != nil {
		return
	}

	if len(keys) == 0 {
		return nil, ErrNoAuthorizedKeys
	}

	srv = &ssh.Server{
		Addr:    addr,
		Handler: handler,
		PublicKeyHandler: func(_ ssh.Context, key ssh.PublicKey) bool {
			for _, k := range keys {
				if ssh.KeysEqual(k, key) {
					return true
				}
			}

			return false
		},
	}

	if len(hostKey) > 0 {
		if err = srv.SetOption(ssh.HostKeyFile(hostKey)); err != nil {
			return nil, fmt.Errorf("could not load host key, %v", err)
		}
	}

	return
}

// ServeSSH serves the shell over SSH on the argument address to clients
// holding one of the authorized keys, which are required. The host key is
// generated when hostKey is empty.
func ServeSSH(addr string, hostKey string, authorizedKeys string) error {
	srv, err := newServer(addr, hostKey, authorizedKeys)

	if err != nil {
		return err
	}

	log.Printf("ssh: starting server at %s", addr)

	return srv.ListenAndServe()
}
