//go:build voicesvf

package minisynth

import "github.com/cbegin/minisynth-go/internal/filter"

const defaultTopology = filter.PerVoice
