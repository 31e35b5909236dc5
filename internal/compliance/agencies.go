package compliance

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed agencies.yaml
var agenciesYAML []byte

type agencyCatalog struct {
	Agencies []string `yaml:"agencies"`
}

var (
	catalogOnce sync.Once
	catalog     []string
)

// Agencies returns the fixed catalog of regulators that may raise a
// compliance event.
func Agencies() []string {
	catalogOnce.Do(func() {
		var c agencyCatalog
		if err := yaml.Unmarshal(agenciesYAML, &c); err != nil || len(c.Agencies) == 0 {
			// The embedded catalog is part of the binary; failure here
			// means a broken build, but a session still needs a name.
			catalog = []string{"Federal Aviation Administration"}
			return
		}
		catalog = c.Agencies
	})
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}
