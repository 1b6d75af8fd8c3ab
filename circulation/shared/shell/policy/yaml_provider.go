package policy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrReadingPolicyFileFailed is returned when the policy file exists but cannot be read or parsed.
var ErrReadingPolicyFileFailed = errors.New("reading policy file failed")

// YAMLFileProvider reads settings from a YAML file of the form
//
//	settings:
//	  DEFAULT_LOAN_PERIOD_DAYS: 14
//	  FINE_PER_DAY: 5.00
//
// The file is read on every call, so edits apply to the next decision. A missing file means
// no settings are configured.
type YAMLFileProvider struct {
	path string
}

type policyFile struct {
	Settings map[string]yaml.Node `yaml:"settings"`
}

// NewYAMLFileProvider creates a YAMLFileProvider for path.
func NewYAMLFileProvider(path string) *YAMLFileProvider {
	return &YAMLFileProvider{path: path}
}

func (p *YAMLFileProvider) GetSetting(ctx context.Context, key string) (string, bool, error) {
	settings, err := p.GetSettings(ctx)
	if err != nil {
		return "", false, err
	}

	value, found := settings[key]

	return value, found, nil
}

// GetSettings returns the scalar values exactly as written in the file, e.g. "5.00" stays "5.00".
func (p *YAMLFileProvider) GetSettings(_ context.Context) (map[string]string, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, errors.Join(ErrReadingPolicyFileFailed, err)
	}

	var file policyFile
	if err = yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrReadingPolicyFileFailed, err)
	}

	settings := make(map[string]string, len(file.Settings))
	for key, node := range file.Settings {
		if node.Kind != yaml.ScalarNode {
			return nil, errors.Join(ErrReadingPolicyFileFailed, fmt.Errorf("setting %s is not a scalar", key))
		}

		settings[key] = node.Value
	}

	return settings, nil
}
