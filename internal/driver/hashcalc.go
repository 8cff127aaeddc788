package driver

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"

	"hscript/internal/cond"
)

// Digest is a SHA-256 value.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// stringDigest хэширует строки с длиной-префиксом, чтобы ("ab","c") != ("a","bc").
func stringDigest(parts ...string) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(strconv.Itoa(len(p))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// varsDigest не зависит от порядка обхода map; значения различаются по типу.
func varsDigest(vars cond.Vars) Digest {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		parts = append(parts, k, typedString(vars[k]))
	}
	return stringDigest(parts...)
}

func typedString(v any) string {
	switch v := v.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + v
	case bool:
		return "b:" + strconv.FormatBool(v)
	case int:
		return "i:" + strconv.Itoa(v)
	case int64:
		return "i:" + strconv.FormatInt(v, 10)
	case float64:
		return "f:" + strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%v", v, v)
}
