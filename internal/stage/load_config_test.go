package stage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/covship/covship/internal/cienv"
)

func TestLoadConfigTokenPrecedence(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, ".covship.yml")
	writeFile(t, root, ".covship.yml", "repo_token: from-config\n")

	cases := []struct {
		name string
		flag string
		env  cienv.Env
		want string
	}{
		{"flag wins", "from-flag", cienv.Env{tokenEnvVar: "from-env"}, "from-flag"},
		{"env beats config", "", cienv.Env{tokenEnvVar: "from-env"}, "from-env"},
		{"config is fallback", "", cienv.Env{}, "from-config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := Envelope{Meta: &Meta{
				Config: &ConfigMeta{Path: cfgPath},
				Upload: &UploadMeta{Token: tc.flag},
			}}
			out, err := Run(context.Background(), loadConfigStage, in, Deps{Env: tc.env})
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if out.Meta.Upload.Token != tc.want {
				t.Fatalf("token: got %q, want %q", out.Meta.Upload.Token, tc.want)
			}
		})
	}
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	in := Envelope{Meta: &Meta{Config: &ConfigMeta{Path: filepath.Join(t.TempDir(), "absent.yml")}}}
	out, err := Run(context.Background(), loadConfigStage, in, Deps{Env: cienv.Env{}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Meta.ConfigDefaults == nil || out.Meta.ConfigDefaults.Slug != "" {
		t.Fatalf("defaults: %+v", out.Meta.ConfigDefaults)
	}
}

func TestLoadConfigCarriesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".covship.yml", "repo_slug: acme/widget\nlabels:\n  - unit\n  - go\n")

	in := Envelope{Meta: &Meta{Config: &ConfigMeta{Path: filepath.Join(root, ".covship.yml")}}}
	out, err := Run(context.Background(), loadConfigStage, in, Deps{Env: cienv.Env{}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := out.Meta.ConfigDefaults
	if d.Slug != "acme/widget" || len(d.Labels) != 2 || d.Labels[0] != "unit" {
		t.Fatalf("defaults: %+v", d)
	}
}

func TestLoadConfigEnvFileDoesNotOverwrite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ci.env", tokenEnvVar+"=from-dotenv\nEXTRA=1\n")

	env := cienv.Env{tokenEnvVar: "from-env"}
	in := Envelope{Meta: &Meta{Config: &ConfigMeta{EnvFile: filepath.Join(root, "ci.env")}}}
	out, err := Run(context.Background(), loadConfigStage, in, Deps{Env: env})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Meta.Upload.Token != "from-env" {
		t.Fatalf("token: %q", out.Meta.Upload.Token)
	}
	if env.Get("EXTRA") != "1" {
		t.Fatalf("dotenv value not merged")
	}
}

func TestLoadConfigInvalidConfigFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".covship.yml", "repo_tokne: oops\n")

	in := Envelope{Meta: &Meta{Config: &ConfigMeta{Path: filepath.Join(root, ".covship.yml")}}}
	if _, err := Run(context.Background(), loadConfigStage, in, Deps{Env: cienv.Env{}}); err == nil {
		t.Fatalf("expected schema error for unknown key")
	}
}
