package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/imamik/tfslot/internal/lifecycle"
	"github.com/imamik/tfslot/internal/platform/kube"
	"github.com/imamik/tfslot/internal/ui/tui"
)

// Output formats accepted by status.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// currentKubeContext reads the active kubeconfig context.
var currentKubeContext = func() (*kube.Context, error) {
	return kube.CurrentContext("")
}

// Status handles the status command.
//
// It reports the declared cluster, the cluster whose state is active, the
// archived state sets and the current kubeconfig context. Nothing is modified.
func Status(_ context.Context, configPath, output string) error {
	loc, err := loadWorkspace(configPath)
	if err != nil {
		return err
	}

	log := newLogger()
	st, err := lifecycle.Inspect(loc, log)
	if err != nil {
		return err
	}

	if kc, err := currentKubeContext(); err != nil {
		log.V(1).Info("no kubeconfig context", "error", err.Error())
	} else {
		st.KubeContext = kc
	}

	switch output {
	case "", OutputText:
		fmt.Fprint(stdout, tui.RenderStatus(st, isInteractive()))
	case OutputJSON:
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
	case OutputYAML:
		data, err := yaml.Marshal(st)
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprint(stdout, string(data))
	default:
		return fmt.Errorf("unsupported output format %q (use %s, %s or %s)", output, OutputText, OutputJSON, OutputYAML)
	}
	return nil
}
