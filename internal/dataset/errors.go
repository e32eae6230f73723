package dataset

import "errors"

var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyDataset  = errors.New("empty dataset")
)
