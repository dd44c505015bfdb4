package taskprovider

import (
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/mtatools/mtatools/internal/testutil"
	"github.com/mtatools/mtatools/internal/tools"
	"github.com/mtatools/mtatools/internal/workspace"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) ShowError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func newWorkspace(t *testing.T, folders ...string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(folders, workspace.DefaultExclude, logr.Discard())
	require.NoError(t, err)
	return ws
}

func newDetector(runner *testutil.FakeRunner, cfHome string) *tools.Detector {
	return tools.NewDetector(runner, tools.Options{CFHome: cfHome}, logr.Discard())
}
