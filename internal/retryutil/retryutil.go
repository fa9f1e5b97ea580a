package retryutil

import (
	"github.com/avast/retry-go/v4"
)

func RetryWithData[T any](retryableFunc func() (T, error)) (T, error) {
	return retry.DoWithData(retryableFunc, retry.Attempts(3), retry.LastErrorOnly(true))
}

func RetryWithoutData(retryableFunc func() error) error {
	return retry.Do(retryableFunc, retry.Attempts(3), retry.LastErrorOnly(true))
}
