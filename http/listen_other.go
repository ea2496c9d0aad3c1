//go:build !unix

package http

import "syscall"

func listenControl(network, address string, c syscall.RawConn) error {
	return nil
}
