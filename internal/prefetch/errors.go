package prefetch

import "errors"

var (
	// ErrClosed — менеджер остановлен, новые загрузки не принимаются.
	ErrClosed = errors.New("prefetch manager closed")
	// ErrTypeMismatch — данные в кэше не того типа, что ожидает Typed.
	ErrTypeMismatch = errors.New("cached value has unexpected type")
	// ErrFetcherPanic — fetcher запаниковал; паника превращена в ошибку.
	ErrFetcherPanic = errors.New("fetcher panicked")
)
