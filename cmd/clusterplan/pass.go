package main

import (
	"github.com/cuemby/clusterscheduler/pkg/scheduler"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// runPass is the single scheduler.Pass call this CLI exists to drive.
func runPass(in scheduler.Input) *types.TransitionGraph {
	return scheduler.Pass(in)
}
