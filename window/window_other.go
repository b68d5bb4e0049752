//go:build !darwin && !linux

package window

import "context"

func New() (Service, error) {
	return nil, ErrUnsupported
}

func Diagnose(_ context.Context) (string, error) {
	return "", ErrUnsupported
}
