package log

import (
	"log/slog"
	"strings"
)

// Mask hides the middle of a secret, keeping a short prefix and suffix so two
// values can still be told apart in logs.
func Mask(raw string) string {
	const (
		prefix = 4
		suffix = 4
		hidden = "########"
	)
	if len(raw) <= prefix+suffix {
		return hidden
	}
	return raw[:prefix] + hidden + raw[len(raw)-suffix:]
}

func redactor(keys []string) func(groups []string, a slog.Attr) slog.Attr {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	return func(_ []string, a slog.Attr) slog.Attr {
		if _, ok := set[strings.ToLower(a.Key)]; !ok {
			return a
		}
		if a.Value.Kind() == slog.KindString {
			return slog.String(a.Key, Mask(a.Value.String()))
		}
		return slog.String(a.Key, "########")
	}
}
