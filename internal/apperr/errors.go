package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrLoadCorrupt      = errors.New("inventory load corrupt")
	ErrSaveVerification = errors.New("save verification failed")
)
