// Package terraform builds the terraform command lines run against the
// shared workspace.
package terraform

import "github.com/imamik/tfslot/internal/command"

// CLI builds terraform invocations rooted at Dir.
type CLI struct {
	Binary string
	Dir    string
}

// Init returns "terraform init", with -upgrade when requested.
func (c CLI) Init(upgrade bool) command.Command {
	args := []string{"init", "-input=false"}
	if upgrade {
		args = append(args, "-upgrade")
	}
	return c.cmd(args...)
}

// Apply returns "terraform apply -auto-approve".
func (c CLI) Apply() command.Command {
	return c.cmd("apply", "-auto-approve", "-input=false")
}

// Destroy returns "terraform destroy -auto-approve".
func (c CLI) Destroy() command.Command {
	return c.cmd("destroy", "-auto-approve", "-input=false")
}

// Version returns "terraform version".
func (c CLI) Version() command.Command {
	return c.cmd("version")
}

func (c CLI) cmd(args ...string) command.Command {
	bin := c.Binary
	if bin == "" {
		bin = "terraform"
	}
	return command.Command{
		Name: bin,
		Args: args,
		Dir:  c.Dir,
		Env:  []string{"TF_IN_AUTOMATION=1"},
	}
}
