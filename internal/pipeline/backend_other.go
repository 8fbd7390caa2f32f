//go:build !windows

package pipeline

import "fmt"

func NewD3D11Backend() (*Backend, error) {
	return nil, fmt.Errorf("%s: %w", BackendD3D11, ErrUnsupported)
}
