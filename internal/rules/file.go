package rules

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-intake/internal/model"
)

// rulesFile is the YAML shape of an external rules file.
type rulesFile struct {
	Rules []model.Rule `yaml:"rules"`
}

// LoadFile reads a YAML rules file and returns its rules. The result
// still goes through New for structural validation.
func LoadFile(path string) ([]model.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "rules: read file")
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "rules: parse yaml")
	}

	return f.Rules, nil
}
