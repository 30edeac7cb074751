package storage

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrUnknownSetting  = errors.New("unknown setting")
)
