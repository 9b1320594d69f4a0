package util

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// ComputeHash - get the hash of the json encoding of data
func ComputeHash(data interface{}) (uint64, error) {
	dataB, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("could not marshal data to bytes: %w", err)
	}

	h := fnv.New64a()
	h.Write(dataB)
	return h.Sum64(), nil
}

// SortedKeys - returns the keys of m in ascending order
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JoinURL - joins a base url and a path making sure exactly one slash separates them
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
