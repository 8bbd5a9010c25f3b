package worker

import "time"

type Config struct {
	Interval   time.Duration
	MaxBackoff time.Duration
}
