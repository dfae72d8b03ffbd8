package telemetry

import (
	"strings"
	"sync"
)

type Report struct {
	Id     string
	Params []any
}

// TestAPI records every report it receives so tests can assert on them.
type TestAPI struct {
	mutex    sync.Mutex
	Broken   []Report
	Warnings []Report
	Debug    []Report
	Counts   map[string]int64
}

func NewTestAPI() *TestAPI {
	return &TestAPI{Counts: map[string]int64{}}
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.Broken = append(t.Broken, Report{Id: id, Params: params})
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.Warnings = append(t.Warnings, Report{Id: id, Params: params})
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.Debug = append(t.Debug, Report{Id: msg, Params: params})
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.Counts[id] = count
}

// BrokenWithSuffix returns the broken reports whose id ends with the given suffix,
// scoped namespaces are ignored that way.
func (t *TestAPI) BrokenWithSuffix(suffix string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return filterSuffix(t.Broken, suffix)
}

func (t *TestAPI) WarningsWithSuffix(suffix string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return filterSuffix(t.Warnings, suffix)
}

func filterSuffix(reports []Report, suffix string) []Report {
	var out []Report
	for _, r := range reports {
		if strings.HasSuffix(r.Id, suffix) {
			out = append(out, r)
		}
	}
	return out
}
