package pgstore

import "errors"

var (
	ErrLoadFailed     = errors.New("pgstore.load_failed")
	ErrCommitFailed   = errors.New("pgstore.commit_failed")
	ErrEncodingFailed = errors.New("pgstore.encoding_failed")
)
