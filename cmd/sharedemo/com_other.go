//go:build !windows

package main

func initCOM() (func(), error) {
	return func() {}, nil
}
