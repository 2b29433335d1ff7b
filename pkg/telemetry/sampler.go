package telemetry

import (
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/sdk/trace"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// createSampler builds the sampler named by cfg.Sampler. An empty name
// samples everything; an unknown name or an unusable ratio is a CONFIG_ERROR.
func createSampler(cfg *Config) (trace.Sampler, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Sampler))

	switch name {
	case "", "always_on":
		return trace.AlwaysSample(), nil
	case "always_off":
		return trace.NeverSample(), nil
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample()), nil
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample()), nil
	case "traceidratio", "parentbased_traceidratio":
		ratio, err := parseRatio(cfg.SamplerArg)
		if err != nil {
			return nil, err
		}
		if name == "traceidratio" {
			return trace.TraceIDRatioBased(ratio), nil
		}
		return trace.ParentBased(trace.TraceIDRatioBased(ratio)), nil
	default:
		return nil, apperrors.Newf(apperrors.CodeConfigError, "unsupported sampler: %s", cfg.Sampler)
	}
}

// parseRatio reads a sampling ratio in [0, 1]. An empty argument means 1.
func parseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1.0, nil
	}

	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeConfigError, "sampler argument "+strconv.Quote(s)+" is not a number", err)
	}
	if ratio < 0 || ratio > 1 {
		return 0, apperrors.Newf(apperrors.CodeConfigError, "sampler ratio %v is outside [0, 1]", ratio)
	}
	return ratio, nil
}
