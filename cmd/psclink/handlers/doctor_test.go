package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/psclink/internal/config"
	ptesting "github.com/imamik/psclink/internal/testing"
	"github.com/imamik/psclink/internal/ui/tui"
	"github.com/imamik/psclink/internal/util/prerequisites"
)

// setupDoctor stubs tools, environment and probes for a healthy machine.
func setupDoctor(t *testing.T, cfg *config.Config, env map[string]string) (*sessionSetup, *[]string) {
	t.Helper()
	setup := useSession(t, cfg, nil, nil)

	checkAllPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "pulumi", Required: true}, Found: true, Path: "/usr/bin/pulumi", Version: "v3.140.0"},
			{Tool: prerequisites.Tool{Name: "gcloud"}, Found: true, Path: "/usr/bin/gcloud"},
		}}
	}
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	var probed []string
	probeEndpoint = func(_ context.Context, endpoint string) error {
		probed = append(probed, endpoint)
		return nil
	}
	return setup, &probed
}

func decodeReport(t *testing.T, data []byte) doctorReport {
	t.Helper()
	var report doctorReport
	require.NoError(t, json.Unmarshal(data, &report))
	return report
}

func findCheck(checks []tui.Check, name string) (tui.Check, bool) {
	for _, c := range checks {
		if c.Name == name {
			return c, true
		}
	}
	return tui.Check{}, false
}

func TestDoctor_Healthy(t *testing.T) {
	env := map[string]string{
		"GOOGLE_APPLICATION_CREDENTIALS": "/keys/sa.json",
		"PULUMI_CONFIG_PASSPHRASE":       "hunter2",
		"PSCLINK_S3_ACCESS_KEY":          "GOOG1",
		"PSCLINK_S3_SECRET_KEY":          "secret",
	}
	cfg := ptesting.NewConfigBuilder().WithS3Backend("orders-state", true).Build()
	cfg.Backend.SecretsProvider = config.DefaultSecretsProvider
	setup, probed := setupDoctor(t, cfg, env)

	require.NoError(t, Doctor(context.Background(), "psclink.yaml", true))

	report := decodeReport(t, setup.out.Bytes())
	assert.True(t, report.Healthy)
	for _, c := range report.Checks {
		assert.NotEqual(t, tui.CheckFailed, c.Status, c.Name)
	}

	pulumi, ok := findCheck(report.Checks, "pulumi")
	require.True(t, ok)
	assert.Equal(t, "v3.140.0", pulumi.Detail)

	backend, ok := findCheck(report.Checks, "backend")
	require.True(t, ok)
	assert.Equal(t, "https://storage.googleapis.com reachable", backend.Detail)
	assert.Equal(t, []string{"https://storage.googleapis.com"}, *probed)
}

func TestDoctor_SectionsInOrder(t *testing.T) {
	setup, _ := setupDoctor(t, ptesting.MinimalConfig(), map[string]string{"PULUMI_CONFIG_PASSPHRASE": "x"})

	require.NoError(t, Doctor(context.Background(), "", true))

	var sections []string
	for _, c := range decodeReport(t, setup.out.Bytes()).Checks {
		if len(sections) == 0 || sections[len(sections)-1] != c.Section {
			sections = append(sections, c.Section)
		}
	}
	assert.Equal(t, []string{sectionTools, sectionCredentials, sectionConfig, sectionBackend}, sections)
}

func TestDoctor_MissingPassphraseFails(t *testing.T) {
	setup, _ := setupDoctor(t, ptesting.MinimalConfig(), map[string]string{})

	err := Doctor(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 doctor check(s) failed")

	out := setup.out.String()
	assert.Contains(t, out, "psclink doctor")
	assert.Contains(t, out, "passphrase")
	assert.Contains(t, out, "application default credentials")
}

func TestDoctor_MissingTools(t *testing.T) {
	setup, _ := setupDoctor(t, ptesting.MinimalConfig(), map[string]string{"PULUMI_CONFIG_PASSPHRASE": "x"})
	checkAllPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "pulumi", Required: true, InstallURL: "https://www.pulumi.com/docs/install/"}},
			{Tool: prerequisites.Tool{Name: "gcloud", Description: "debugging"}},
		}}
	}

	require.Error(t, Doctor(context.Background(), "", true))

	report := decodeReport(t, setup.out.Bytes())
	assert.False(t, report.Healthy)
	pulumi, _ := findCheck(report.Checks, "pulumi")
	assert.Equal(t, tui.CheckFailed, pulumi.Status)
	assert.Contains(t, pulumi.Detail, "https://www.pulumi.com/docs/install/")
	gcloud, _ := findCheck(report.Checks, "gcloud")
	assert.Equal(t, tui.CheckWarning, gcloud.Status)
}

func TestDoctor_UnreachableBackend(t *testing.T) {
	cfg := ptesting.NewConfigBuilder().WithS3Backend("orders-state", false).Build()
	setup, _ := setupDoctor(t, cfg, map[string]string{})
	probeEndpoint = func(context.Context, string) error { return errors.New("connection refused") }

	require.Error(t, Doctor(context.Background(), "", true))

	report := decodeReport(t, setup.out.Bytes())
	backend, ok := findCheck(report.Checks, "backend")
	require.True(t, ok)
	assert.Equal(t, tui.CheckFailed, backend.Status)
	assert.Contains(t, backend.Detail, "connection refused")

	keys, ok := findCheck(report.Checks, "state bucket keys")
	require.True(t, ok)
	assert.Equal(t, tui.CheckWarning, keys.Status)
}

func TestDoctor_FileBackendIsNotProbed(t *testing.T) {
	cfg := ptesting.NewConfigBuilder().WithFileBackend(t.TempDir()).Build()
	_, probed := setupDoctor(t, cfg, map[string]string{})

	require.NoError(t, Doctor(context.Background(), "", true))
	assert.Empty(t, *probed)
}

func TestDoctor_NoConfig(t *testing.T) {
	setup, probed := setupDoctor(t, ptesting.MinimalConfig(), map[string]string{})
	findConfigFile = func() (string, error) { return "", errors.New("config file psclink.yaml not found") }

	require.NoError(t, Doctor(context.Background(), "", true))

	report := decodeReport(t, setup.out.Bytes())
	file, ok := findCheck(report.Checks, "config file")
	require.True(t, ok)
	assert.Equal(t, tui.CheckWarning, file.Status)
	_, ok = findCheck(report.Checks, "backend")
	assert.False(t, ok)
	assert.Empty(t, *probed)
}

func TestDoctor_InvalidConfig(t *testing.T) {
	cfg := ptesting.MinimalConfig()
	cfg.Producer.Service.Image = ""
	setup, _ := setupDoctor(t, cfg, map[string]string{"PULUMI_CONFIG_PASSPHRASE": "x"})

	require.Error(t, Doctor(context.Background(), "psclink.yaml", true))

	failed := 0
	for _, c := range decodeReport(t, setup.out.Bytes()).Checks {
		if c.Section == sectionConfig && c.Status == tui.CheckFailed {
			failed++
		}
	}
	assert.Positive(t, failed)
}
