package terraform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLI(t *testing.T) {
	c := CLI{Binary: "/usr/local/bin/terraform", Dir: "/work/infra"}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"init", c.Init(false).Args, []string{"init", "-input=false"}},
		{"init upgrade", c.Init(true).Args, []string{"init", "-input=false", "-upgrade"}},
		{"apply", c.Apply().Args, []string{"apply", "-auto-approve", "-input=false"}},
		{"destroy", c.Destroy().Args, []string{"destroy", "-auto-approve", "-input=false"}},
		{"version", c.Version().Args, []string{"version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	cmd := c.Apply()
	assert.Equal(t, "/usr/local/bin/terraform", cmd.Name)
	assert.Equal(t, "/work/infra", cmd.Dir)
	assert.Contains(t, cmd.Env, "TF_IN_AUTOMATION=1")
}

func TestCLI_DefaultBinary(t *testing.T) {
	assert.Equal(t, "terraform", CLI{}.Init(false).Name)
}
