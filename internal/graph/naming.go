// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/pinpath"
)

// UniqueName returns name if it is free, otherwise name with a numeric suffix
// that is free. An existing suffix is incremented, so "X" becomes "X1" and a
// taken "X1" becomes "X2".
func UniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	base := strings.TrimRight(name, "0123456789")
	n := 1
	if suffix := name[len(base):]; suffix != "" {
		if v, err := strconv.Atoi(suffix); err == nil {
			n = v + 1
		}
	}
	for {
		candidate := base + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
		n++
	}
}

func validateName(name string) error {
	if err := pinpath.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return nil
}
