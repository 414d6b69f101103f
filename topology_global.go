//go:build !voicesvf && !nosvf

package minisynth

import "github.com/cbegin/minisynth-go/internal/filter"

const defaultTopology = filter.Global
