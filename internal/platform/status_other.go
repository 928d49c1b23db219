//go:build !linux && !windows

package platform

import "context"

type unsupportedStatusSource struct{}

func newStatusSource(StatusConfig) StatusSource {
	return unsupportedStatusSource{}
}

func (unsupportedStatusSource) Watch(ctx context.Context, sink Sink) error {
	return ErrStatusUnsupported
}
