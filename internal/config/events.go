package config

type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Region   string `yaml:"region"`
	TopicARN string `yaml:"topic_arn"`
}

func loadEventsConfig() *EventsConfig {
	return &EventsConfig{
		Enabled:  getEnvAsBool("EVENTS_SNS_ENABLED", false),
		Region:   getEnv("AWS_REGION", "ap-south-1"),
		TopicARN: getEnv("EVENTS_SNS_TOPIC_ARN", ""),
	}
}
