package redis

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	RequestStream string
	ReportStream  string
	Group         string
	ConsumerName  string
}

func NewRedisStreamConfig(redisAddr, redisPassword, requestStream, reportStream, group, consumerName string) *RedisStreamConfig {
	if consumerName == "" {
		consumerName = "iris-validator"
	}
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		RequestStream: requestStream,
		ReportStream:  reportStream,
		Group:         group,
		ConsumerName:  consumerName,
	}
}
