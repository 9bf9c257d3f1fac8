// Copyright (C) 2024 Tim Bastin, l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package utils

import (
	"os"
	"strings"
)

func Ptr[T any](t T) *T {
	return &t
}

func RunsInCI() bool {
	if val, ok := os.LookupEnv("CI"); ok {
		return val == "true"
	}
	return false
}

func RunsInGithubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

func SafeDereference(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func EmptyThenNil(s string) *string {
	if s == "" {
		return nil
	}
	return Ptr(s)
}

func OrDefault[T any](val *T, def T) T {
	if val == nil {
		return def
	}
	return *val
}

// SplitAndTrim splits a comma separated list, trims every element and drops empty ones.
func SplitAndTrim(s string) []string {
	res := make([]string, 0)
	for _, el := range strings.Split(s, ",") {
		el = strings.TrimSpace(el)
		if el == "" {
			continue
		}
		res = append(res, el)
	}
	return res
}

// DeduplicateSlice deduplicates a slice in O(n) out of place.
func DeduplicateSlice[T any](slice []T, idFunc func(t T) string) []T {
	deduplicatedSlice := make([]T, 0, len(slice))
	seen := make(map[string]struct{}, len(slice))
	for i := range slice {
		id := idFunc(slice[i])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduplicatedSlice = append(deduplicatedSlice, slice[i])
	}
	return deduplicatedSlice
}
