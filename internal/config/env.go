package config

import "time"

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"labinv"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

// LabAPI is the remote laboratory backend every screen persists through.
type LabAPI struct {
	Addr    string        `mapstructure:"LAB_API_ADDR" default:"http://127.0.0.1:8000/api/"`
	Timeout time.Duration `mapstructure:"LAB_API_TIMEOUT" default:"30s"`
}

// Redis is optional; an empty host keeps view state and locks in process.
type Redis struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

func (r Redis) Enabled() bool { return r.Host != "" }

type Session struct {
	Name   string `mapstructure:"SESSION_NAME" default:"labinv_session"`
	Secret string `mapstructure:"SESSION_SECRET" default:"labinv-dev-secret"`
	MaxAge int    `mapstructure:"SESSION_MAX_AGE" default:"86400"`
}

type Directory struct {
	PageSize     int           `mapstructure:"DIRECTORY_PAGE_SIZE" default:"4"`
	ViewStateTTL time.Duration `mapstructure:"VIEW_STATE_TTL" default:"12h"`
}

type Intake struct {
	CategoryKeyword string `mapstructure:"INTAKE_CATEGORY_KEYWORD" default:"Reagent"`
	PoolSize        int    `mapstructure:"INTAKE_POOL_SIZE" default:"8"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}
