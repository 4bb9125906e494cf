package main

import (
	"math"
	"strconv"
	"strings"
)

// parseAngle reads the rotation angle for the single-parameter
// rotation gates. Two forms are accepted: a plain float ("1.57",
// "-0.5") or a pi fraction "[-][k][*]pi[/n]" ("pi", "-pi/2", "3pi/4",
// "2*pi/3"). Case and spaces are ignored.
func parseAngle(s string) (float64, bool) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	coeffStr, rest, ok := strings.Cut(s, "pi")
	if !ok {
		return 0, false
	}
	coeff := 1.0
	if coeffStr = strings.TrimSuffix(coeffStr, "*"); coeffStr != "" {
		c, err := strconv.ParseFloat(coeffStr, 64)
		if err != nil {
			return 0, false
		}
		coeff = c
	}

	val := coeff * math.Pi
	if rest != "" {
		denStr, found := strings.CutPrefix(rest, "/")
		if !found {
			return 0, false
		}
		den, err := strconv.ParseFloat(denStr, 64)
		if err != nil || den == 0 {
			return 0, false
		}
		val /= den
	}

	if neg {
		val = -val
	}
	return val, true
}
