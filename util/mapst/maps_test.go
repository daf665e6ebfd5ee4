package mapst

import (
	"sort"
	"testing"
)

func TestEach(t *testing.T) {
	sum := 0
	Each(map[string]int{"a": 1, "b": 2}, func(_ string, v int) { sum += v })
	if sum != 3 {
		t.Fatalf("sum = %d, want 3", sum)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys(map[string]int{"x": 10, "y": 20})
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
