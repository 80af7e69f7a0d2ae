package stage

import (
	"context"
	"fmt"

	"github.com/covship/covship/internal/cienv"
	"github.com/covship/covship/internal/config"
)

const loadConfigStage = "load-config"

// tokenEnvVar supplies the repo token when neither flag nor config file does.
const tokenEnvVar = "COVSHIP_REPO_TOKEN"

func loadConfigRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	if out.Meta == nil {
		out.Meta = &Meta{}
	}
	if out.Meta.Config == nil {
		out.Meta.Config = &ConfigMeta{}
	}
	if out.Meta.Upload == nil {
		out.Meta.Upload = &UploadMeta{}
	}

	if envFile := out.Meta.Config.EnvFile; envFile != "" {
		if err := config.MergeEnvFile(envFile, deps.Env); err != nil {
			return Envelope{}, fmt.Errorf("%s: %v", loadConfigStage, err)
		}
	}

	f, err := config.Load(out.Meta.Config.Path)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %v", loadConfigStage, err)
	}

	// Token precedence: flag, then environment, then config file.
	if out.Meta.Upload.Token == "" {
		out.Meta.Upload.Token = deps.Env.Get(tokenEnvVar)
	}
	if out.Meta.Upload.Token == "" {
		out.Meta.Upload.Token = f.RepoToken
	}

	out.Meta.ConfigDefaults = &cienv.Defaults{Slug: f.RepoSlug, Labels: f.Labels}
	return out, nil
}

func init() { Register(loadConfigStage, loadConfigRunner) }
