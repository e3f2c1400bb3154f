package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/tfslot/internal/lifecycle"
	"github.com/imamik/tfslot/internal/platform/kube"
	tstest "github.com/imamik/tfslot/internal/testing"
)

func stubKubeContext(t *testing.T, kc *kube.Context, err error) {
	t.Helper()
	orig := currentKubeContext
	t.Cleanup(func() { currentKubeContext = orig })
	currentKubeContext = func() (*kube.Context, error) { return kc, err }
}

func TestStatus_Text(t *testing.T) {
	f := newFixture(t, tstest.MinimalConfig())
	tstest.WriteStateSet(t, f.loc.Dir, tstest.EKSState("alpha"), "")
	stubKubeContext(t, &kube.Context{Name: "dev", Cluster: "arn:aws:eks:us-east-1:123456789012:cluster/alpha"}, nil)

	require.NoError(t, Status(context.Background(), "", OutputText))

	out := f.out.String()
	assert.Contains(t, out, "declared             alpha")
	assert.Contains(t, out, "active state         alpha")
	assert.Contains(t, out, "kube context         alpha")
}

func TestStatus_JSON(t *testing.T) {
	f := newFixture(t, tstest.MinimalConfig())
	tstest.WriteStateSet(t, f.loc.Dir, tstest.EKSState("alpha"), "")
	tstest.WriteStateSet(t, f.loc.Dir+"/tf.state_beta", tstest.EKSState("beta"), "")
	stubKubeContext(t, nil, errors.New("no kubeconfig"))

	require.NoError(t, Status(context.Background(), "", OutputJSON))

	var st lifecycle.Status
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &st))
	assert.Equal(t, "alpha", st.Declared)
	assert.Equal(t, "alpha", st.Occupant)
	require.Len(t, st.Archives, 1)
	assert.Equal(t, "beta", st.Archives[0].Identity)
	assert.Nil(t, st.KubeContext)
}

func TestStatus_YAML(t *testing.T) {
	f := newFixture(t, tstest.MinimalConfig())
	stubKubeContext(t, nil, nil)

	require.NoError(t, Status(context.Background(), "", OutputYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(f.out.Bytes(), &doc))
	assert.Equal(t, "alpha", doc["declared"])
	assert.Equal(t, f.loc.Dir, doc["workspace"])
}

func TestStatus_UnsupportedFormat(t *testing.T) {
	newFixture(t, tstest.MinimalConfig())
	stubKubeContext(t, nil, nil)

	err := Status(context.Background(), "", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
