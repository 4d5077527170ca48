package modify

import "regexp"

var placeholderPattern = regexp.MustCompile(`\$\(([^()]+)\)`)

// Resolver looks up the replacement for a placeholder key
type Resolver interface {
	Resolve(key string) (string, bool)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(key string) (string, bool)

func (f ResolverFunc) Resolve(key string) (string, bool) { return f(key) }

// Identity resolves every key to itself
var Identity Resolver = ResolverFunc(func(key string) (string, bool) { return key, true })

// Chain resolves keys from m first, then from fallback. A nil fallback
// leaves keys missing from m unresolved.
func Chain(m map[string]string, fallback Resolver) Resolver {
	return ResolverFunc(func(key string) (string, bool) {
		if v, ok := m[key]; ok {
			return v, true
		}
		if fallback == nil {
			return "", false
		}
		return fallback.Resolve(key)
	})
}

// FillPlaceholders replaces every $(key) in code with its resolution. An
// unresolved key is replaced by the bare key.
func FillPlaceholders(code string, r Resolver) string {
	return placeholderPattern.ReplaceAllStringFunc(code, func(match string) string {
		key := match[2 : len(match)-1]
		if r != nil {
			if v, ok := r.Resolve(key); ok {
				return v
			}
		}
		return key
	})
}
