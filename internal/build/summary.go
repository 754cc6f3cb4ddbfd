package build

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/UsatovPavel/RIID/internal/fileutil"
	"github.com/UsatovPavel/RIID/internal/graph"
)

// Summary is the persisted record of one invocation.
type Summary struct {
	BuildID     string            `yaml:"build_id"`
	Started     time.Time         `yaml:"started"`
	Duration    string            `yaml:"duration"`
	JavaVersion int               `yaml:"java_version"`
	Params      map[string]string `yaml:"params"`
	Requested   []string          `yaml:"requested"`
	Succeeded   bool              `yaml:"succeeded"`
	Tasks       []TaskSummary     `yaml:"tasks"`
}

// TaskSummary is the outcome of one planned task.
type TaskSummary struct {
	Name     string `yaml:"name"`
	State    string `yaml:"state"`
	Duration string `yaml:"duration,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// NewSummary records rep in plan order. Tasks without a result are pending.
func NewSummary(p *Project, plan *graph.Plan, rep *graph.Report, started, finished time.Time) *Summary {
	s := &Summary{
		BuildID:     p.buildID,
		Started:     started.UTC(),
		Duration:    finished.Sub(started).Round(time.Millisecond).String(),
		JavaVersion: p.toolchain.Version,
		Params:      p.params.Map(),
		Requested:   plan.Requested(),
		Succeeded:   rep.Succeeded(),
	}
	for _, name := range plan.Order() {
		ts := TaskSummary{Name: name, State: string(graph.StatePending)}
		if res, ok := rep.Result(name); ok {
			ts.State = string(res.State)
			if res.Duration > 0 {
				ts.Duration = res.Duration.Round(time.Millisecond).String()
			}
			if res.Err != nil {
				ts.Error = res.Err.Error()
			}
		}
		s.Tasks = append(s.Tasks, ts)
	}
	return s
}

// Write stores the summary as YAML at path.
func (s *Summary) Write(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return fileutil.AtomicWrite(path, data)
}
