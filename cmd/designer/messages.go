package main

import "github.com/rxtech-lab/argo-designer/internal/persist"

// SaveResultMsg carries the outcome of an asynchronous save.
type SaveResultMsg struct {
	Result persist.SaveResult
}
