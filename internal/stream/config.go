package stream

import "github.com/povarna/iris-pipeline/internal/stream/redis"

const (
	RequestStream = "iris-validation-requests"
	ReportStream  = "iris-validation-reports"
	DefaultGroup  = "iris-validators"
)

type StreamConfig struct {
	Provider    string // redis
	RedisConfig *redis.RedisStreamConfig
}
