package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/greggh/lust-next-sub011/internal/domain"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

func TestCollectCmd(t *testing.T) {
	mockWorkflow, mockUI := withMocks(t)

	sources := []m.Source{{Path: "a.lua"}}
	data := m.NewCoverageData()

	mockWorkflow.EXPECT().GetSources(m.Path("...")).Return(sources, nil)
	mockWorkflow.EXPECT().Collect(mock.Anything, sources, m.Path("w1.trace"), m.Path("out")).
		Return(domain.CollectResult{Data: data, Output: "out/coverage-w1.json", Worker: "w1", Complete: true, Events: 4}, nil)
	mockUI.EXPECT().Start(mock.Anything).Return(nil)
	mockUI.EXPECT().DisplayCoverage(data, 80.0, nil).Return(nil)
	mockUI.EXPECT().Wait().Return()

	_, err := run(t, newCollectCmd(), "collect", "--trace", "w1.trace", "-o", "out")
	require.NoError(t, err)
}

func TestCollectCmd_DefaultOutDir(t *testing.T) {
	mockWorkflow, mockUI := withMocks(t)

	data := m.NewCoverageData()

	mockWorkflow.EXPECT().GetSources(m.Path("lib/...")).Return([]m.Source{}, nil)
	mockWorkflow.EXPECT().Collect(mock.Anything, []m.Source{}, m.Path("t"), m.Path(".lustcov")).
		Return(domain.CollectResult{Data: data}, nil)
	mockUI.EXPECT().Start(mock.Anything).Return(nil)
	mockUI.EXPECT().DisplayCoverage(data, 65.0, nil).Return(nil)
	mockUI.EXPECT().Wait().Return()

	_, err := run(t, newCollectCmd(), "collect", "-t", "t", "--threshold", "65", "lib/...")
	require.NoError(t, err)
}

func TestCollectCmd_RequiresTrace(t *testing.T) {
	withMocks(t)

	_, err := run(t, newCollectCmd(), "collect")
	assert.ErrorContains(t, err, `required flag(s) "trace" not set`)
}
