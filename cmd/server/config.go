package main

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	SegmentBufferSize    int           `env:"SEGMENT_BUFFER_SIZE,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	ProviderTimeout      time.Duration `env:"PROVIDER_TIMEOUT,default=15s"`
	TranscribeURL        string        `env:"TRANSCRIBE_URL,required=true"`
	TranslateURL         string        `env:"TRANSLATE_URL,required=true"`
	SynthesizeURL        string        `env:"SYNTHESIZE_URL,required=true"`
}
