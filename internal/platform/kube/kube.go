// Package kube inspects the local kubeconfig written by aws eks
// update-kubeconfig.
package kube

import (
	"fmt"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
)

// Context is the active kubeconfig context.
type Context struct {
	Name    string `json:"name" yaml:"name"`
	Cluster string `json:"cluster" yaml:"cluster"`
	Server  string `json:"server,omitempty" yaml:"server,omitempty"`
}

// EKSClusterName returns the EKS cluster name for contexts written by
// update-kubeconfig, whose cluster entry is the cluster ARN
// (arn:aws:eks:<region>:<account>:cluster/<name>). Other contexts return
// the cluster entry unchanged.
func (c Context) EKSClusterName() string {
	if i := strings.LastIndex(c.Cluster, ":cluster/"); i >= 0 && strings.HasPrefix(c.Cluster, "arn:") {
		return c.Cluster[i+len(":cluster/"):]
	}
	return c.Cluster
}

// CurrentContext reads the current context from the kubeconfig at path. An
// empty path uses the standard loading rules (KUBECONFIG, ~/.kube/config).
// It returns nil when no current context is set.
func CurrentContext(path string) (*Context, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}

	raw, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if raw.CurrentContext == "" {
		return nil, nil
	}

	ctx := &Context{Name: raw.CurrentContext}
	if kc, ok := raw.Contexts[raw.CurrentContext]; ok && kc != nil {
		ctx.Cluster = kc.Cluster
		if cl, ok := raw.Clusters[kc.Cluster]; ok && cl != nil {
			ctx.Server = cl.Server
		}
	}
	return ctx, nil
}
