package analytics

import "errors"

var (
	ErrEmptyDataset   = errors.New("empty dataset")
	ErrNoPairs        = errors.New("no order contains two distinct products")
	ErrUnknownProduct = errors.New("unknown product")
)
