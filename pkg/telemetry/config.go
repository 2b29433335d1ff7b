package telemetry

import (
	"os"
	"strings"
)

// Config holds OpenTelemetry configuration. It is normally the telemetry
// section of the application config, with the standard OTEL_* variables
// applied on top by ApplyEnv.
type Config struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`

	// Endpoint is the OTLP collector endpoint.
	Endpoint string `mapstructure:"endpoint"`

	// Protocol is the OTLP protocol (grpc or http/protobuf).
	Protocol string `mapstructure:"protocol"`

	// Headers are sent with every export, e.g. Authorization.
	Headers map[string]string `mapstructure:"headers"`

	Insecure bool `mapstructure:"insecure"`

	// Sampler is one of always_on, always_off, traceidratio,
	// parentbased_always_on, parentbased_always_off, parentbased_traceidratio.
	Sampler    string `mapstructure:"sampler"`
	SamplerArg string `mapstructure:"sampler_arg"`

	ResourceAttrs map[string]string `mapstructure:"resource_attributes"`
}

// DefaultConfig returns a disabled configuration for the jar-analyzer service.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "jar-analyzer",
		ServiceVersion: "unknown",
		Protocol:       "grpc",
		Sampler:        "always_on",
	}
}

// ApplyEnv overrides fields with the standard OTEL_* environment variables
// that are set.
func (c *Config) ApplyEnv() *Config {
	if v, ok := os.LookupEnv("OTEL_ENABLED"); ok {
		c.Enabled = strings.EqualFold(v, "true")
	}
	setIfPresent(&c.ServiceName, "OTEL_SERVICE_NAME")
	setIfPresent(&c.ServiceVersion, "OTEL_SERVICE_VERSION")
	setIfPresent(&c.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setIfPresent(&c.Protocol, "OTEL_EXPORTER_OTLP_PROTOCOL")
	if v, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_INSECURE"); ok {
		c.Insecure = strings.EqualFold(v, "true")
	}
	setIfPresent(&c.Sampler, "OTEL_TRACES_SAMPLER")
	setIfPresent(&c.SamplerArg, "OTEL_TRACES_SAMPLER_ARG")

	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		c.Headers = mergePairs(c.Headers, parseKeyValuePairs(v))
	}
	if v := os.Getenv("OTEL_RESOURCE_ATTRIBUTES"); v != "" {
		c.ResourceAttrs = mergePairs(c.ResourceAttrs, parseKeyValuePairs(v))
	}
	return c
}

func setIfPresent(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

func mergePairs(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// parseKeyValuePairs parses a comma-separated list of key=value pairs.
// Example: "key1=value1,key2=value2" -> map[string]string{"key1": "value1", "key2": "value2"}
func parseKeyValuePairs(s string) map[string]string {
	result := make(map[string]string)
	if s == "" {
		return result
	}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)

		// Split on first '=' only to allow '=' in values
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(pair[:idx])
		if key != "" {
			result[key] = strings.TrimSpace(pair[idx+1:])
		}
	}

	return result
}
