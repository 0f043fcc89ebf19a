package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestLocalWalkthrough(t *testing.T) {
	dir := t.TempDir()

	assert.Contains(t, run(t, "start", "fitness-baseline", "--dir", dir), "Next calculator: bmi")
	assert.Contains(t, run(t, "advance", "bmi", "weight=80", "height=180", "--dir", dir), "Next calculator: body-fat")
	assert.Contains(t, run(t, "advance", "tdee", "--dir", dir), "Ignored: current calculator is body-fat")

	status := run(t, "status", "--dir", dir)
	assert.Contains(t, status, "1/3")
	assert.Contains(t, status, "weight = 80")

	assert.Contains(t, run(t, "session", "ls", "--dir", dir), "- local")
	assert.Contains(t, run(t, "session", "inspect", "local", "--dir", dir), `"chainId":"fitness-baseline"`)

	run(t, "advance", "body-fat", "--dir", dir)
	assert.Contains(t, run(t, "advance", "tdee", "--dir", dir), "complete")
	assert.Contains(t, run(t, "status", "--dir", dir), "No chain in progress.")
	assert.Contains(t, run(t, "session", "ls", "--dir", dir), "No active sessions found.")
}

func TestLocalStartExit(t *testing.T) {
	dir := t.TempDir()

	run(t, "start", "heart-health", "--dir", dir)
	assert.Contains(t, run(t, "chains", "graph", "heart-health", "--dir", dir), "graph LR")
	run(t, "exit", "--dir", dir)
	assert.Contains(t, run(t, "advance", "blood-pressure", "--dir", dir), "No chain in progress.")
}

func TestChainsCommands(t *testing.T) {
	dir := t.TempDir()

	assert.Contains(t, run(t, "chains", "ls", "--dir", dir), "army-fitness")
	assert.Contains(t, run(t, "chains", "show", "muscle-gain", "--dir", dir), "lean-body-mass")
}

func TestStartUnknownChain(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"start", "nope", "--dir", t.TempDir()})
	assert.Error(t, rootCmd.Execute())
}
