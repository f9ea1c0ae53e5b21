package commonGo

import "time"

// FileLoggingHandler defines the rotating log file attached to the logger
type FileLoggingHandler interface {
	ChangeFileLifeSpan(newDuration time.Duration, newSizeInMB uint64) error
	Close() error
	IsInterfaceNil() bool
}
