package main

import (
	"fmt"

	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/win"
)

func initCOM() (func(), error) {
	if hr := win.CoInitialize(); win.Failed(hr) {
		return nil, fmt.Errorf("CoInitializeEx: %w", d3d.HRESULT(uint32(hr)))
	}
	return win.CoUninitialize, nil
}
