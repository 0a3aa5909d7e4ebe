package matching

import (
	"log/slog"
	mathrand "math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/schoderer/pact-stub-server/pkg/pact"
)

const randomStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateResponse produces the response to send for a matched interaction.
// The stored response is never mutated: generators are applied to a copy.
// Generator paths that cannot be parsed or applied leave the recorded value
// in place.
func GenerateResponse(log *slog.Logger, resp *pact.Response) *pact.Response {
	out := &pact.Response{
		Status:  resp.Status,
		Headers: copyHeaders(resp.Headers),
		Body:    resp.Body,
	}

	if resp.Generators.Empty() || !resp.Body.IsPresent() {
		return out
	}

	data, err := oj.Parse(resp.Body.Bytes())
	if err != nil {
		log.Warn("response body is not JSON, skipping generators", "error", err)
		return out
	}

	paths := make([]string, 0, len(resp.Generators.Body))
	for path := range resp.Generators.Body {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		gen := resp.Generators.Body[path]
		value, ok := generateValue(gen)
		if !ok {
			log.Warn("unsupported generator type", "type", gen.Type, "path", path)
			continue
		}
		expr, err := jp.ParseString(path)
		if err != nil {
			log.Warn("invalid generator path", "path", path, "error", err)
			continue
		}
		if err := expr.Set(data, value); err != nil {
			log.Warn("failed to apply generator", "path", path, "error", err)
		}
	}

	out.Body = pact.PresentBody([]byte(oj.JSON(data)))
	return out
}

// generateValue produces a value for one generator. The supported types are
// the ones that appear in pact v3 contracts for stubbed responses.
func generateValue(gen pact.Generator) (any, bool) {
	switch gen.Type {
	case "Uuid":
		return uuid.NewString(), true
	case "RandomInt":
		minVal, maxVal := gen.Min, gen.Max
		if minVal == 0 && maxVal == 0 {
			maxVal = 2147483647
		} else if maxVal < minVal {
			minVal, maxVal = 0, 2147483647
		}
		return int64(minVal + mathrand.Intn(maxVal-minVal+1)), true
	case "RandomString":
		size := gen.Size
		if size <= 0 {
			size = 20
		}
		buf := make([]byte, size)
		for i := range buf {
			buf[i] = randomStringAlphabet[mathrand.Intn(len(randomStringAlphabet))]
		}
		return string(buf), true
	case "Date":
		return time.Now().Format("2006-01-02"), true
	case "Time":
		return time.Now().Format("15:04:05"), true
	case "DateTime":
		return time.Now().Format(time.RFC3339), true
	default:
		return nil, false
	}
}

func copyHeaders(headers map[string][]string) map[string][]string {
	if headers == nil {
		return nil
	}
	out := make(map[string][]string, len(headers))
	for name, vals := range headers {
		copied := make([]string, len(vals))
		copy(copied, vals)
		out[name] = copied
	}
	return out
}
