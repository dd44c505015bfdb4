// Package notify shows a desktop notification when a build or deploy task
// finishes. It calls the native OS tools (notify-send, osascript,
// PowerShell) through a shell.Runner and never fails the task it reports on.
package notify

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/mtatools/mtatools/internal/shell"
)

// Title is the title of every notification.
const Title = "mtatools"

// sendTimeout bounds one notification command.
const sendTimeout = 5 * time.Second

// Notification is one message to show.
type Notification struct {
	Title   string
	Message string
	Failure bool
}

// Desktop sends notifications with the notification tool of GOOS.
type Desktop struct {
	Runner shell.Runner
	// GOOS defaults to runtime.GOOS.
	GOOS string
	Log  logr.Logger
}

// Send shows n. Unsupported platforms are a no-op.
func (d *Desktop) Send(ctx context.Context, n Notification) error {
	goos := d.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args := command(goos, n)
	if name == "" {
		return nil
	}

	res, err := d.Runner.Run(ctx, name, args, shell.Options{Timeout: sendTimeout})
	if err != nil {
		return fmt.Errorf("sending notification with %s: %w", name, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s exited with code %d", name, res.ExitCode)
	}
	return nil
}

func command(goos string, n Notification) (string, []string) {
	switch goos {
	case "linux":
		urgency := "normal"
		if n.Failure {
			urgency = "critical"
		}
		return "notify-send", []string{"-u", urgency, n.Title, n.Message}
	case "darwin":
		return "osascript", []string{"-e", fmt.Sprintf("display notification %q with title %q", n.Message, n.Title)}
	case "windows":
		script := fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$text = $template.GetElementsByTagName('text')
$text.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$text.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('%s').Show([Windows.UI.Notifications.ToastNotification]::new($template))`,
			quotePowerShell(n.Title), quotePowerShell(n.Message), Title)
		return "powershell", []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", script}
	}
	return "", nil
}

// quotePowerShell escapes s for a single-quoted PowerShell string.
func quotePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// ciVariables mark non-interactive CI runs, where no one sees a notification.
var ciVariables = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"TF_BUILD",
	"BUILDKITE",
}

// InCI reports whether a CI environment variable is set.
func InCI() bool {
	for _, v := range ciVariables {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// FormatDuration renders d as "850ms", "12.3s" or "2.5m".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
