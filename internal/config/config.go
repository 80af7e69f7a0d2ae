package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration (.covship.yml). Only these keys are
// honored; anything else is a validation error so typos surface instead of
// silently doing nothing.
type File struct {
	RepoToken string   `yaml:"repo_token"`
	RepoSlug  string   `yaml:"repo_slug"`
	Labels    []string `yaml:"labels"`
}

// schema is the CUE shape the YAML must satisfy before decoding.
const schema = `close({
	repo_token?: string
	repo_slug?:  string
	labels?: [...string]
})`

// Load reads and validates the config at path. A missing file is not an
// error: the zero File means "nothing configured".
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := validate(path, data); err != nil {
		return File{}, fmt.Errorf("invalid config %s: %v", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("invalid config %s: %v", path, err)
	}
	return f, nil
}

// validate checks the YAML document against the CUE schema. This catches
// wrong types and unknown keys before the lenient YAML decode runs.
func validate(path string, data []byte) error {
	ctx := cuecontext.New()
	sv := ctx.CompileString(schema)
	if err := sv.Err(); err != nil {
		return err
	}
	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return err
	}
	v := ctx.BuildFile(file)
	if err := v.Err(); err != nil {
		return err
	}
	return sv.Unify(v).Validate()
}
