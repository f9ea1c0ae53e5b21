package ingestion

import "errors"

var errNilRenderer = errors.New("nil renderer")

var errNilReadoutBoard = errors.New("nil readout board")

var errNilObserver = errors.New("nil observer")

var errNilClock = errors.New("nil clock")

const (
	dropReasonDecode        = "decode"
	dropReasonConfiguration = "configuration"
)
