package tui

import (
	"github.com/matheuskafuri/kanjo/internal/analyzer"
	"github.com/matheuskafuri/kanjo/internal/cache"
)

type entriesLoadedMsg struct {
	entries []cache.Entry
}

type errMsg struct {
	err error
}

// taskErrMsg reports a failed analysis or batch run, the only commands that
// hold the busy flag.
type taskErrMsg struct {
	err error
}

type analyzedMsg struct {
	outcome analyzer.Outcome
}

type exportDoneMsg struct {
	path  string
	count int
}

type batchDoneMsg struct {
	path string
	rows []analyzer.BatchRow
}

type resetDoneMsg struct{}
