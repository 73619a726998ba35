package config

import "errors"

var (
	ErrMissingClientKey    = errors.New("zoom SDK client key is required (set ZOOM_CLIENT_KEY env var or --client-key flag)")
	ErrMissingClientSecret = errors.New("zoom SDK client secret is required (set ZOOM_CLIENT_SECRET env var or --client-secret flag)")
)
